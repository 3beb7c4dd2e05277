package names

import "testing"

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Count", "count", true},
		{"COUNT", "count", true},
		{"Äpfel", "äPFEL", true},
		{"Count", "Counts", false},
		{"", "", true},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Fatalf("Equal(%q, %q): got %v", c.a, c.b, got)
		}
	}
}
