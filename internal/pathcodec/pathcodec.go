// Package pathcodec normalizes repository-relative paths and encodes them
// into flat filenames suitable for the baseline, stash, and suspended
// directories under the VCS metadata directory.
package pathcodec

import "strings"

// Normalize converts a path into its canonical registry-key form: separators
// become '/', a leading "./" is stripped, and any trailing '/' is removed.
// Normalize does not resolve ".." segments or symlinks; callers are expected
// to have already anchored the path at the repository root.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	for p != "/" && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Encode maps a normalized path to a flat filename safe for use as a single
// path component. The escape character must be escaped first so the mapping
// is reversible: every '%' becomes "%25", then every '/' becomes "%2F".
// Reversing that order would make "%2F" in the original path indistinguishable
// from an encoded '/'.
func Encode(p string) string {
	escaped := strings.ReplaceAll(p, "%", "%25")
	escaped = strings.ReplaceAll(escaped, "/", "%2F")
	return escaped
}

// Decode reverses Encode. It must undo the transformations in the opposite
// order they were applied: "%2F" back to '/' first, then "%25" back to '%'.
func Decode(encoded string) string {
	decoded := strings.ReplaceAll(encoded, "%2F", "/")
	decoded = strings.ReplaceAll(decoded, "%25", "%")
	return decoded
}
