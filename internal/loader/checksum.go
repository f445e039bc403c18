package loader

import (
	"crypto/sha256"
	"fmt"
	"io"
)

// checksumReader computes the SHA-256 digest of everything r yields,
// without buffering the whole stream.
func checksumReader(r io.Reader) ([sha256.Size]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return [sha256.Size]byte{}, err
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// verifyChecksum compares a computed digest against the one stored in the
// file header.
func verifyChecksum(computed, stored [sha256.Size]byte) error {
	if computed != stored {
		return fmt.Errorf("weight data checksum mismatch: file is corrupt or truncated")
	}
	return nil
}
