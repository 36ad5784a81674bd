// Package hasher computes the content digests used as cache-busting version
// tokens. md5 is deliberate: the digest guards cache freshness, not
// integrity, and its 32-character hex form is what gets embedded into
// rewritten import specifiers.
package hasher

import (
	"crypto/md5"
	"encoding/hex"
)

// Size is the length in characters of a hex-encoded digest.
const Size = 2 * md5.Size

// Sum returns the lowercase hex md5 digest of content. Byte-identical input
// produces the same digest on every run; the whole cache-busting mechanism
// relies on that stability.
func Sum(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}
