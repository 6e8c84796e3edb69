package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The History of Coffee", "the_history_of_coffee"},
		{"  spaced   out  ", "spaced_out"},
		{"UPPER case", "upper_case"},
		{"keep-dashes_and_underscores", "keep-dashes_and_underscores"},
		{"émojis & symbols!?", "mojis_symbols"},
		{"café ٣ nights", "caf_nights"},
		{"!!!", "untitled"},
		{"", "untitled"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Deep Sea Creatures"), Slugify("Deep Sea Creatures"))
}
