package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashKey returns a stable md5 hex digest over the given parts. It is used to
// build cache file names for synthesized audio.
func HashKey(parts ...string) string {
	h := md5.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TrimBasePath removes trailing slashes so that paths can be appended with a
// single "/".
func TrimBasePath(basePath string) string {
	return strings.TrimRight(strings.TrimSpace(basePath), "/")
}
