package audiosink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	cases := []struct {
		haystack, needle string
		want             bool
	}{
		{"ICUSBAUDIO7D", "icusbaudio7d", true},
		{"USB Audio Device (ICUSBAUDIO7D)", "icusbaudio7d", true},
		{"Built-in Audio", "icusbaudio7d", false},
		{"anything", "", true},
		{"short", "muchlongerneedle", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, containsFold(c.haystack, c.needle), "containsFold(%q, %q)", c.haystack, c.needle)
	}
}
