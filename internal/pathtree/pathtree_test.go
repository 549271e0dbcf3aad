package pathtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain lowercase", "garage", "garage"},
		{"uppercase folded", "Garage", "garage"},
		{"spaces to underscore", "metal shelf", "metal_shelf"},
		{"run of separators collapsed", "metal -- shelf", "metal_shelf"},
		{"polish diacritics", "Półka metalowa", "polka_metalowa"},
		{"full polish alphabet", "zażółć gęślą jaźń", "zazolc_gesla_jazn"},
		{"uppercase polish", "ŁÓDŹ", "lodz"},
		{"latin-1 diacritics", "Çà et là", "ca_et_la"},
		{"german sharp s", "Straße", "strasse"},
		{"digits kept", "Shelf 2b", "shelf_2b"},
		{"leading and trailing junk trimmed", "  --shelf--  ", "shelf"},
		{"only punctuation", "!!! ???", ""},
		{"empty", "", ""},
		{"unmapped script dropped", "棚 shelf", "shelf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "garaz", Join("", "garaz"))
	assert.Equal(t, "garaz.regal_a", Join("garaz", "regal_a"))
	assert.Equal(t, "root.garaz.polka_metalowa", Join("root.garaz", Sanitize("Półka metalowa")))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth(""))
	assert.Equal(t, 1, Depth("garaz"))
	assert.Equal(t, 3, Depth("garaz.regal_a.polka_2"))
}

func TestRewrite(t *testing.T) {
	// Exact prefix match rewrites the node itself.
	assert.Equal(t, "piwnica", Rewrite("garaz", "garaz", "piwnica"))
	// Descendants keep their suffix.
	assert.Equal(t, "piwnica.regal_a.polka_2", Rewrite("garaz.regal_a.polka_2", "garaz", "piwnica"))
	// A sibling whose path merely begins with the same characters is untouched.
	assert.Equal(t, "garaz_stary.polka", Rewrite("garaz_stary.polka", "garaz", "piwnica"))
}
