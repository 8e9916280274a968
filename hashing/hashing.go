// Package hashing provides stable, non-cryptographic content hashes.
package hashing

import (
	"hash/fnv"
	"sort"
)

// String hashes a string with FNV-64a.
func String(s string) string {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(s))
	return formatHash(hasher.Sum64())
}

// Strings hashes an ordered sequence of strings. Each part is length-prefixed so
// that {"ab", "c"} and {"a", "bc"} hash differently.
func Strings(parts ...string) string {
	hasher := fnv.New64a()
	var lenBuf [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range lenBuf {
			lenBuf[i] = byte(n >> (8 * i))
		}
		_, _ = hasher.Write(lenBuf[:])
		_, _ = hasher.Write([]byte(p))
	}
	return formatHash(hasher.Sum64())
}

// Map hashes a string map independently of iteration order.
func Map(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		parts = append(parts, k, m[k])
	}
	return Strings(parts...)
}

// formatHash converts a uint64 hash to a zero-padded 16-character hex string
// without the allocation overhead of fmt.Sprintf.
func formatHash(h uint64) string {
	const hexDigits = "0123456789abcdef"
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf[:])
}
