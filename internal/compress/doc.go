// Package compress implements the compact wire codec for protocol records.
// Each record maps to a fixed-arity positional JSON array whose element
// order is part of the wire contract and append-only: new fields go at the
// end, optional fields stay as null placeholders so arity never varies.
//
// CompressX validates required fields and fails with ErrMalformedRecord;
// unmarshalling a compact tuple enforces arity and element types and fails
// with ErrArrayShape. Both directions are pure and stateless, and errors
// always name the record type they refused.
package compress
