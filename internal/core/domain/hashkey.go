package domain

import (
	"strconv"
	"unicode/utf16"
)

// Hash returns a deterministic, order-sensitive fingerprint of text.
//
// The accumulator starts at zero and, for every UTF-16 code unit c of text,
// becomes acc*31 + c truncated to a signed 32-bit integer. The result is the
// decimal form of the accumulator, so Hash("") is "0". The hash is not
// cryptographic and collisions are possible.
func Hash(text string) string {
	var acc int32
	for _, r := range text {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			acc = acc*31 + hi
			acc = acc*31 + lo
			continue
		}
		acc = acc*31 + r
	}
	return strconv.FormatInt(int64(acc), 10)
}

// ArtifactKey returns the cache key of the compiled artifact for source.
func ArtifactKey(source string) string {
	return "compiled-" + Hash(source) + "-v" + ArtifactSchemaVersion
}
