package crypto

import "crypto/subtle"

// Wipe overwrites b with zeros. ConstantTimeCopy keeps the compiler from
// eliding the stores.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
