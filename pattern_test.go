package cssbase64

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstReference returns group 1 of the first match of expr in text.
func firstReference(t *testing.T, expr, text string) (string, bool) {
	t.Helper()
	re, err := compilePattern(expr)
	require.NoError(t, err)
	m, err := re.FindStringMatch(text)
	require.NoError(t, err)
	if m == nil {
		return "", false
	}
	return m.GroupByNumber(1).String(), true
}

func TestDefaultPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    string
		matched bool
	}{
		{"bare", "a{background:url(img/a.png)}", "img/a.png", true},
		{"single quotes", "a{background:url('img/a.png')}", "img/a.png", true},
		{"double quotes", `a{background:url("img/a.png")}`, "img/a.png", true},
		{"uppercase", "a{background:URL(img/a.png)}", "img/a.png", true},
		{"query kept", "a{background:url(a.png?v=1)}", "a.png?v=1", true},
		{"fragment kept", "a{background:url(a.svg#icon)}", "a.svg#icon", true},
		{"remote", "a{background:url(https://x.test/a.png)}", "https://x.test/a.png", true},
		{"data uri", "a{background:url(data:image/png;base64,AAAA)}", "data:image/png;base64,AAAA", true},
		{"skip directive", "a{background:url(a.png)} /*base64:skip*/", "", false},
		{"skip directive adjacent", "a{background:url(a.png)/*base64:skip*/}", "", false},
		{"no url", "a{color:red}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := firstReference(t, DefaultPattern, tt.text)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPattern_DirectiveIsLineScoped(t *testing.T) {
	t.Parallel()

	text := "a{background:url(a.png)}\nb{background:url(b.png)} /*base64:skip*/"
	got, ok := firstReference(t, DefaultPattern, text)
	require.True(t, ok)
	assert.Equal(t, "a.png", got)
}

func TestPatternForDirective(t *testing.T) {
	t.Parallel()

	t.Run("default marker reproduces default pattern behavior", func(t *testing.T) {
		t.Parallel()

		_, ok := firstReference(t, PatternForDirective(SkipDirective), "a{background:url(a.png)} /*base64:skip*/")
		assert.False(t, ok)
	})

	t.Run("custom marker", func(t *testing.T) {
		t.Parallel()

		expr := PatternForDirective("/*myRegexp*/")

		_, ok := firstReference(t, expr, "a{background:url(a.png)}/*myRegexp*/")
		assert.False(t, ok)

		got, ok := firstReference(t, expr, "a{background:url(a.png)}/*base64:skip*/")
		assert.True(t, ok)
		assert.Equal(t, "a.png", got)
	})

	t.Run("marker metacharacters are literal", func(t *testing.T) {
		t.Parallel()

		expr := PatternForDirective("[keep]")

		_, ok := firstReference(t, expr, "a{background:url(a.png)} [keep]")
		assert.False(t, ok)

		_, ok = firstReference(t, expr, "a{background:url(a.png)} k")
		assert.True(t, ok)
	})
}

func TestCompilePattern(t *testing.T) {
	t.Parallel()

	t.Run("sets match timeout", func(t *testing.T) {
		t.Parallel()

		re, err := compilePattern(DefaultPattern)
		require.NoError(t, err)
		assert.Equal(t, patternMatchTimeout, re.MatchTimeout)
	})

	t.Run("rejects invalid syntax", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern(`url(`)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("rejects pattern without group", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern(`url`)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})
}
