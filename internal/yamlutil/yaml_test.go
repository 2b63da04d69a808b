package yamlutil_test

// Notes:
// - DecodeFile read error branch (io.ReadAll failing mid-file) is not tested:
//   it needs a failing file system, which os.Open cannot be pointed at.

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-cssbase64/internal/yamlutil"
)

type testConfig struct {
	MaxWeight  int      `yaml:"maxWeight"`
	Extensions []string `yaml:"extensions"`
	Verbose    bool     `yaml:"verbose"`
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Parses YAML and rejects unknown keys
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		errText string
		want    testConfig
	}{
		{
			name: "valid YAML",
			data: []byte("maxWeight: 1024\nextensions: [.png, .svg]\nverbose: true"),
			dest: &testConfig{},
			want: testConfig{MaxWeight: 1024, Extensions: []string{".png", ".svg"}, Verbose: true},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testConfig{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil destination",
			data:    []byte("verbose: true"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "too large",
			data:    []byte("verbose: true\n" + strings.Repeat("#", yamlutil.MaxInputSize)),
			dest:    &testConfig{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
		{
			name:    "unknown field",
			data:    []byte("maxWieght: 10"),
			dest:    &testConfig{},
			errText: "maxWieght",
		},
		{
			name:    "invalid syntax",
			data:    []byte("extensions: [unclosed"),
			dest:    &testConfig{},
			errText: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict(tt.data, tt.dest)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, *tt.dest.(*testConfig))
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	t.Run("reads and decodes", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("maxWeight: 7\n"), 0o600))

		var cfg testConfig
		require.NoError(t, yamlutil.DecodeFile(path, &cfg))
		assert.Equal(t, 7, cfg.MaxWeight)
	})

	t.Run("missing file keeps not-exist error", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		err := yamlutil.DecodeFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("oversized file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "big.yaml")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("#", yamlutil.MaxInputSize+10)), 0o600))

		var cfg testConfig
		assert.ErrorIs(t, yamlutil.DecodeFile(path, &cfg), yamlutil.ErrInputTooLarge)
	})
}
