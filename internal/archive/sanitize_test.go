package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Meghalaya", "Meghalaya"},
		{"East Khasi Hills", "East_Khasi_Hills"},
		{"  padded  ", "padded"},
		{"2020-21", "2020-21"},
		{"15/01/2021", "15_01_2021"},
		{"a.b-c_d", "a.b-c_d"},
		{"x(y)z", "x_y_z"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Sanitize(c.in), "input %q", c.in)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"Meghalaya", "East Khasi Hills", "15/01/2021", "a (b) c!", "_-._",
	} {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeAlphabet(t *testing.T) {
	t.Parallel()

	out := Sanitize("state: Meghalaya / 2020–21 @GP#1\t")
	for _, r := range out {
		ok := r == '_' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, ok, "unexpected rune %q in %q", r, out)
	}
}
