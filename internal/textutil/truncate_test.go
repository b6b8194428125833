package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdef", 3, "abc"},
		{"zero", "abc", 0, ""},
		{"multibyte", "Æther—Vial", 6, "Æther—"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestEllipsize(t *testing.T) {
	if got := Ellipsize("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := Ellipsize("abc", 3); got != "abc" {
		t.Errorf("got %q", got)
	}
}
