package prompt

import "testing"

func TestCleanReply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"double quotes", `"hello there"`, "hello there"},
		{"single quotes", "'hello there'", "hello there"},
		{"reply prefix", "Reply: ok", "ok"},
		{"reply prefix with space", "Reply : hnn", "hnn"},
		{"response prefix", "Response: chalega", "chalega"},
		{"message prefix", "Message: aa rha hu", "aa rha hu"},
		{"quoted and prefixed", `"Reply: thik h"`, "thik h"},
		{"plain text untouched", "kuch nhi bas", "kuch nhi bas"},
		{"surrounding whitespace", "  hm \n", "hm"},
		{"mismatched quotes kept", `"hello'`, `"hello'`},
		{"inner quotes kept", `bola "aaja" usne`, `bola "aaja" usne`},
		{"single quote char", "'", "'"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanReply(tc.in); got != tc.want {
				t.Errorf("CleanReply(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
