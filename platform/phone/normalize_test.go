package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"local mobile", "081234567890", "+6281234567890"},
		{"local with dashes", "0812-3456-7890", "+6281234567890"},
		{"local with spaces", "0812 3456 7890", "+6281234567890"},
		{"already e164", "+6281234567890", "+6281234567890"},
		{"foreign number kept", "+31612345678", "+31612345678"},
		{"garbage passes through", "not-a-number", "not-a-number"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
