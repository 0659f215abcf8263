package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/newscard/internal/fonts"
)

// monoSizer measures every rune as 10px wide.
type monoSizer struct{}

func (monoSizer) Measure(s string, role fonts.Role) Metrics {
	return Metrics{Text: s, Role: role, Width: 10 * len([]rune(s)), Height: 10}
}

func TestCollapseBreaks(t *testing.T) {
	assert.Equal(t, "a b c d", CollapseBreaks("a\nb\r\nc\rd"))
}

func TestWrapGreedy(t *testing.T) {
	lines := Wrap(monoSizer{}, "aa bb cc dd", fonts.RoleTitle, 50)
	assert.Equal(t, []string{"aa bb", "cc dd"}, lines)
}

func TestWrapIgnoresManualBreaks(t *testing.T) {
	lines := Wrap(monoSizer{}, "aa\nbb\ncc", fonts.RoleTitle, 100)
	assert.Equal(t, []string{"aa bb cc"}, lines)
}

func TestWrapOverlongWordOnItsOwnLine(t *testing.T) {
	lines := Wrap(monoSizer{}, "a supercalifragilistic b", fonts.RoleTitle, 50)
	assert.Equal(t, []string{"a", "supercalifragilistic", "b"}, lines)
}

func TestWrapEmpty(t *testing.T) {
	assert.Empty(t, Wrap(monoSizer{}, "", fonts.RoleTitle, 50))
	assert.Empty(t, Wrap(monoSizer{}, " \n\t ", fonts.RoleTitle, 50))
}

func TestWrapPreservesWordsWithRealFont(t *testing.T) {
	faces, err := fonts.Builtin().NewFaces()
	require.NoError(t, err)
	defer faces.Close()
	m := NewMeasurer(faces)

	titles := []string{
		"India Cuts Rates For First Time In Nearly Five Years; Indians To Enjoy 25 bps Cut",
		"Breaking",
		"Pneumonoultramicroscopicsilicovolcanoconiosis strikes again\nacross   the\r\nregion",
		strings.Repeat("word ", 60),
	}
	for _, title := range titles {
		const limit = 920
		lines := Wrap(m, title, fonts.RoleTitle, limit)
		assert.Equal(t, strings.Fields(title), strings.Fields(strings.Join(lines, " ")), title)
		for _, line := range lines {
			w := m.Measure(line, fonts.RoleTitle).Width
			if w > limit {
				assert.Len(t, strings.Fields(line), 1, "only a single word may overflow: %q", line)
			}
		}
	}
}
