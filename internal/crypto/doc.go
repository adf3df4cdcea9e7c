// Package crypto wraps the primitives the envelope protocol is built on:
// NaCl box asymmetric encryption, blake2b-256 hashing, Ed25519 signatures,
// address derivation, and canonical JSON for signing structured records.
package crypto
