package redis

import "testing"

func TestIsValidSignature(t *testing.T) {
	cases := []struct {
		name string
		sig  string
		want bool
	}{
		{"empty", "", false},
		{"short", "too-short", false},
		{"exact-minimum", stringOfLen(MinSignatureLength), true},
		{"long", stringOfLen(MinSignatureLength + 20), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidSignature(tc.sig); got != tc.want {
				t.Errorf("IsValidSignature(len=%d) = %v, want %v", len(tc.sig), got, tc.want)
			}
		})
	}
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
