// Package exchange moves sealed envelopes between identities over a carrier.
//
// Sending resolves the receiver through the carrier directory, falling back
// to locally cached contacts when the directory cannot answer. Receiving
// decrypts queued envelopes in order and acknowledges only the prefix it
// processed, so an undecryptable envelope never costs the mail behind it.
package exchange
