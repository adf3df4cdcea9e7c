// Package memzero clears byte slices that held key material, so plaintext
// identities do not linger on the heap after sealing or unsealing.
package memzero

// Zero overwrites b with zeros. The compiler lowers the loop to memclr.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
