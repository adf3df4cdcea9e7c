// Package store provides file-based persistence for claimwire's client
// state.
//
// Identities are sealed under a passphrase (scrypt-derived
// ChaCha20-Poly1305) before they touch disk, one file per address.
// Contacts and mailbox cursors are plain JSON. All writes go through a
// temp-file-then-rename path and all methods are concurrency-safe via
// internal locking. Files live under the configured home directory.
package store
