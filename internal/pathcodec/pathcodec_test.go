package pathcodec

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"a/b/c":        "a/b/c",
		"./a/b":        "a/b",
		"a/b/":         "a/b",
		`a\b\c`:        "a/b/c",
		"a/b///":       "a/b",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	paths := []string{
		"config/local.yml",
		"a/b/c.txt",
		"file%with%percent.txt",
		"path/with%2Flookalike",
		"%2F%2F",
		"no-special-chars",
		"100%/done.txt",
	}
	for _, p := range paths {
		encoded := Encode(p)
		decoded := Decode(encoded)
		if decoded != p {
			t.Errorf("round trip failed: Encode(%q) = %q, Decode(...) = %q", p, encoded, decoded)
		}
	}
}

func TestEncodeProducesSingleComponent(t *testing.T) {
	encoded := Encode("a/b/c")
	if containsSlash(encoded) {
		t.Errorf("Encode(%q) = %q still contains a slash", "a/b/c", encoded)
	}
}

func containsSlash(s string) bool {
	for _, r := range s {
		if r == '/' {
			return true
		}
	}
	return false
}
