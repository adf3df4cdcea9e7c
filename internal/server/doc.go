// Package server implements relayd, the claimwire delivery service.
//
// It exposes a JSON HTTP API for the directory (address to public
// identity) and per-address mailboxes, plus a WebSocket endpoint for live
// delivery. Envelopes are screened at ingest: the relay recomputes the
// envelope hash and checks the sender signature, which needs no keys, so
// tampered mail is rejected at the door. Accepted envelopes get a message
// id and received-at stamp before they are queued.
//
// The directory takes registrations at face value; authenticity of mail is
// carried by the envelope signatures, not by who registered a box key.
//
// Storage is pluggable: a Mongo-backed directory and Redis-backed mailbox
// for production, in-memory equivalents for development and tests.
package server
