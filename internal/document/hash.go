package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDocument prefixes document digests. The version suffix allows the
// encoding to change without colliding with old digests.
const DomainDocument = "nodemap/document/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the content hash of the document's encoding. Two documents
// that encode identically have the same digest.
func Digest(d Document) (string, error) {
	data, err := Encode(d)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainDocument, data), nil
}
