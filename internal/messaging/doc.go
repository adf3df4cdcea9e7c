// Package messaging implements the envelope protocol: the closed set of
// typed protocol bodies, their structured and compact wire forms, and the
// envelope lifecycle. Envelopes are encrypted when constructed and opened
// through a fixed verification order (hash, signature, decryption, payload
// parse, owner binding) that must not be reordered.
package messaging
