// Package ident turns arbitrary file names and paths into opaque tokens that
// are safe to use as element identifiers and back again.
package ident

import (
	"encoding/base32"
	"strings"
)

// tokenPrefix keeps every token letter-led; some toolkits reject ids that
// start with a digit.
const tokenPrefix = "f"

// Lowercase RFC 4648 base32 without padding. The alphabet has no '-', so
// sidebar suffixes such as "-pinned" never collide with token content.
var encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Suffixes applied to tokens by the pin sidebar.
const (
	SuffixDefault = "-default"
	SuffixPinned  = "-pinned"
	SuffixDrives  = "-drives"
)

// Encode returns the token for name. It is deterministic.
func Encode(name string) string {
	return tokenPrefix + encoding.EncodeToString([]byte(name))
}

// Decode reverses Encode. Tokens not produced by Encode decode to garbage
// or an empty string; callers never feed foreign tokens here.
func Decode(token string) string {
	raw, err := encoding.DecodeString(strings.TrimPrefix(token, tokenPrefix))
	if err != nil {
		return ""
	}
	return string(raw)
}

// WithSuffix attaches a sidebar suffix to the token for name.
func WithSuffix(name, suffix string) string {
	return Encode(name) + suffix
}

// StripSuffix removes a known sidebar suffix from id and decodes the rest.
// ok is false when id carries none of the known suffixes.
func StripSuffix(id string) (name string, suffix string, ok bool) {
	for _, s := range []string{SuffixDefault, SuffixPinned, SuffixDrives} {
		if strings.HasSuffix(id, s) {
			return Decode(strings.TrimSuffix(id, s)), s, true
		}
	}
	return "", "", false
}
