package lockfile

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Sign returns the HMAC-SHA256 tag of content under key.
func Sign(key, content []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(content)
	return mac.Sum(nil)
}

// Verify reports whether tag authenticates content under key, in constant
// time.
func Verify(key, content, tag []byte) bool {
	return hmac.Equal(Sign(key, content), tag)
}
