package common

// WipeBytes zeroes b in place. It is used on password buffers once they have
// been sent.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
