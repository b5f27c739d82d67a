package sha2

import (
	std256 "crypto/sha256"
	"crypto/sha512"
	"fmt"
	"github.com/minio/sha256-simd"
	"strings"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// This file dispatches one-shot digests over the six FIPS 180-4 variants. SHA-256 is backended by
// minio's extended implementation, which selects SHA or AVX-512 paths at runtime; minio has no
// SHA-224, so it and the 512-bit family come from the standard library.

// A Variant names one of the six SHA-2 digest functions.
type Variant uint8

const (
	SHA224 Variant = iota
	SHA256
	SHA384
	SHA512
	SHA512t224 /* SHA-512/224 */
	SHA512t256 /* SHA-512/256 */
)

// Size returns the digest width of v in bytes.
func (v Variant) Size() int {
	switch v {
	case SHA224:
		return std256.Size224
	case SHA256:
		return sha256.Size
	case SHA384:
		return sha512.Size384
	case SHA512:
		return sha512.Size
	case SHA512t224:
		return sha512.Size224
	case SHA512t256:
		return sha512.Size256
	}
	panic("sha2: unknown variant")
}

// Sum writes the digest of in to the first Size() bytes of out. It is the sole
// update-then-digest entrypoint iterated by the collision search, so it must not retain
// state across calls.
func (v Variant) Sum(out, in []byte) {
	switch v {
	case SHA224:
		sum := std256.Sum224(in)
		copy(out, sum[:])
	case SHA256:
		sum := sha256.Sum256(in)
		copy(out, sum[:])
	case SHA384:
		sum := sha512.Sum384(in)
		copy(out, sum[:])
	case SHA512:
		sum := sha512.Sum512(in)
		copy(out, sum[:])
	case SHA512t224:
		sum := sha512.Sum512_224(in)
		copy(out, sum[:])
	case SHA512t256:
		sum := sha512.Sum512_256(in)
		copy(out, sum[:])
	default:
		panic("sha2: unknown variant")
	}
}

func (v Variant) String() string {
	switch v {
	case SHA224:
		return "SHA-224"
	case SHA256:
		return "SHA-256"
	case SHA384:
		return "SHA-384"
	case SHA512:
		return "SHA-512"
	case SHA512t224:
		return "SHA-512/224"
	case SHA512t256:
		return "SHA-512/256"
	}
	return "SHA-?"
}

// Parse resolves strings like "256", "sha384", or "512/224" to their Variant.
func Parse(s string) (Variant, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.TrimPrefix(t, "sha-")
	t = strings.TrimPrefix(t, "sha")
	switch t {
	case "224":
		return SHA224, nil
	case "256":
		return SHA256, nil
	case "384":
		return SHA384, nil
	case "512":
		return SHA512, nil
	case "512/224", "512-224", "512_224":
		return SHA512t224, nil
	case "512/256", "512-256", "512_256":
		return SHA512t256, nil
	}
	return 0, fmt.Errorf("sha2: unrecognized variant %q", s)
}
