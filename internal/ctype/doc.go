// Package ctype models claim type schemas: a named set of typed properties
// identified by the hash of its canonical JSON form. Claims are checked
// against a schema before they enter a message.
package ctype
