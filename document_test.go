package cssbase64

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Kinds(t *testing.T) {
	t.Parallel()

	assert.True(t, Document{}.IsNull())
	assert.True(t, Document{Path: "a.css"}.IsNull())
	assert.False(t, Document{Contents: []byte{}}.IsNull(), "empty contents are still contents")
	assert.False(t, Document{Stream: strings.NewReader("")}.IsNull())
	assert.True(t, Document{Stream: strings.NewReader("")}.IsStream())
	assert.False(t, Document{Contents: []byte("a")}.IsStream())
}

// ---------------------------------------------------------------------------
// TestProcess - Pipeline invocation contract
// ---------------------------------------------------------------------------

func TestProcess(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, DefaultConfig())

	t.Run("null document passes through", func(t *testing.T) {
		t.Parallel()

		in := Document{Path: "site.css"}
		out, err := engine.Process(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("stream is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Process(context.Background(), Document{Path: "site.css", Stream: strings.NewReader("a{}")})
		assert.ErrorIs(t, err, ErrStreamNotSupported)
		assert.Contains(t, err.Error(), "site.css")
	})

	t.Run("contents are rewritten and path kept", func(t *testing.T) {
		t.Parallel()

		in := Document{Path: "site.css", Contents: []byte(buttonCSS(fixturePNG))}
		out, err := engine.Process(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "site.css", out.Path)
		assert.Equal(t, buttonCSS(fixtureURI), string(out.Contents))
		assert.Equal(t, buttonCSS(fixturePNG), string(in.Contents), "input is not modified")
	})

	t.Run("unresolvable references do not fail", func(t *testing.T) {
		t.Parallel()

		in := Document{Path: "site.css", Contents: []byte(buttonCSS("missing.png"))}
		out, err := engine.Process(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, in.Contents, out.Contents)
	})

	t.Run("references resolve against document path", func(t *testing.T) {
		t.Parallel()

		in := Document{Path: "testdata/site.css", Contents: []byte(buttonCSS("image/very-very-small.png"))}
		out, err := engine.Process(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, buttonCSS(fixtureURI), string(out.Contents))
	})
}
