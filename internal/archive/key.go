package archive

import (
	"fmt"
	"strings"
)

// Key identifies one unit of work: a fully specified path through the six
// dropdown levels. The report option is not part of the key: exactly one
// option value is chosen per combination. All fields are stored
// sanitized so keys recovered from filenames and keys built during traversal
// compare equal.
type Key struct {
	State     string
	District  string
	Block     string
	Panchayat string
	Year      string
	Date      string
}

// NewKey builds a Key from raw dropdown values, sanitizing each field.
func NewKey(state, district, block, panchayat, year, date string) Key {
	return Key{
		State:     Sanitize(state),
		District:  Sanitize(district),
		Block:     Sanitize(block),
		Panchayat: Sanitize(panchayat),
		Year:      Sanitize(year),
		Date:      Sanitize(date),
	}
}

func (k Key) fields() [6]string {
	return [6]string{k.State, k.District, k.Block, k.Panchayat, k.Year, k.Date}
}

func (k Key) String() string {
	f := k.fields()
	return strings.Join(f[:], "/")
}

// Extensions recognized for previously saved pages.
const (
	extHTML = ".html"
	extGzip = ".html.gz"
)

// Filename returns the deterministic archive filename for a key and its
// chosen option value: the seven sanitized fields joined by '_' plus the
// compressed-page suffix.
func Filename(k Key, option string) string {
	f := k.fields()
	return fmt.Sprintf("%s_%s%s", strings.Join(f[:], "_"), Sanitize(option), extGzip)
}

// ParseFilename inverts Filename: it strips the saved-page extension,
// discards the trailing option segment at the last '_' and splits the rest
// into exactly six fields, the last one absorbing any embedded delimiters.
// Returns false for names that do not match this shape.
func ParseFilename(name string) (Key, bool) {
	base, ok := strings.CutSuffix(name, extGzip)
	if !ok {
		base, ok = strings.CutSuffix(name, extHTML)
		if !ok {
			return Key{}, false
		}
	}

	// Drop the option segment; it is not part of the key.
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return Key{}, false
	}
	base = base[:i]

	parts := strings.SplitN(base, "_", 6)
	if len(parts) != 6 {
		return Key{}, false
	}

	return NewKey(parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]), true
}
