// Package credential builds and checks the records exchanged during an
// attestation: schema-validated claims, signed requests, the attestations
// that answer them, and quote signing on both sides. Everything here is
// offline verification over canonical JSON digests; transport and storage
// live elsewhere.
package credential
