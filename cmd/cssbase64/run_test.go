package main

// Notes:
// - runMain is exercised end to end with a temp directory and the shared
//   PNG fixture. Remote references are not exercised here; the library
//   tests cover them with httptest.
// - Signal handling (NotifyContext) is not tested.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePNG = "../../testdata/image/very-very-small.png"

// testEnv returns an environment with captured output and no ambient variables.
func testEnv(vars ...string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Stdout:  &stdout,
		Stderr:  &stderr,
		Environ: environ(vars...),
	}, &stdout, &stderr
}

// siteDir creates a directory with img/icon.png and site.css referencing it.
func siteDir(t *testing.T) (dir, cssPath string) {
	t.Helper()
	dir = t.TempDir()

	png, err := os.ReadFile(fixturePNG)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "icon.png"), png, 0o600))

	cssPath = writeCSS(t, dir, "site.css", ".a{background:url(img/icon.png)}\n.b{background:url(img/missing.png)}\n")
	return dir, cssPath
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// ---------------------------------------------------------------------------
// TestRunMain - End to end
// ---------------------------------------------------------------------------

func TestRunMain_InPlace(t *testing.T) {
	t.Parallel()

	_, css := siteDir(t)
	env, stdout, _ := testEnv()

	code := runMain([]string{"cssbase64", css}, env)

	require.Equal(t, ExitSuccess, code)
	got := readString(t, css)
	assert.Contains(t, got, ".a{background:url(data:image/png;base64,iVBORw0KGgo")
	assert.Contains(t, got, ".b{background:url(img/missing.png)}")
	assert.Contains(t, stdout.String(), "Created "+css)
}

func TestRunMain_OutputDir(t *testing.T) {
	t.Parallel()

	dir, css := siteDir(t)
	out := filepath.Join(dir, "dist")
	original := readString(t, css)
	env, _, _ := testEnv()

	code := runMain([]string{"cssbase64", "-o", out, css}, env)

	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, original, readString(t, css), "source is left alone")
	assert.Contains(t, readString(t, filepath.Join(out, "site.css")), "data:image/png;base64,")
}

func TestRunMain_FlagsOverrideEnvAndConfig(t *testing.T) {
	t.Parallel()

	dir, css := siteDir(t)
	cfgPath := writeCSS(t, dir, "cfg.yaml", "maxWeightResource: 10\n")

	t.Run("config limits size", func(t *testing.T) {
		env, _, _ := testEnv()
		code := runMain([]string{"cssbase64", "-c", cfgPath, "-o", filepath.Join(dir, "c"), css}, env)
		require.Equal(t, ExitSuccess, code)
		assert.NotContains(t, readString(t, filepath.Join(dir, "c", "site.css")), "data:")
	})

	t.Run("env overrides config", func(t *testing.T) {
		env, _, _ := testEnv("CSSBASE64_MAX_WEIGHT=0")
		code := runMain([]string{"cssbase64", "-c", cfgPath, "-o", filepath.Join(dir, "e"), css}, env)
		require.Equal(t, ExitSuccess, code)
		assert.Contains(t, readString(t, filepath.Join(dir, "e", "site.css")), "data:")
	})

	t.Run("flag overrides env", func(t *testing.T) {
		env, _, _ := testEnv("CSSBASE64_MAX_WEIGHT=0")
		code := runMain([]string{"cssbase64", "-c", cfgPath, "--max-weight", "10", "-o", filepath.Join(dir, "f"), css}, env)
		require.Equal(t, ExitSuccess, code)
		assert.NotContains(t, readString(t, filepath.Join(dir, "f", "site.css")), "data:")
	})
}

func TestRunMain_Extensions(t *testing.T) {
	t.Parallel()

	dir, css := siteDir(t)
	env, _, _ := testEnv()

	code := runMain([]string{"cssbase64", "--extensions", ".gif,.jpg", "-o", filepath.Join(dir, "out"), css}, env)
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, readString(t, filepath.Join(dir, "out", "site.css")), "data:")
}

func TestRunMain_DeleteAfterEncoding(t *testing.T) {
	t.Parallel()

	dir, css := siteDir(t)
	env, _, _ := testEnv()

	code := runMain([]string{"cssbase64", "--delete-after-encoding", css}, env)
	require.Equal(t, ExitSuccess, code)
	assert.NoFileExists(t, filepath.Join(dir, "img", "icon.png"))
}

func TestRunMain_Verbose(t *testing.T) {
	t.Parallel()

	_, css := siteDir(t)
	env, stdout, stderr := testEnv()

	code := runMain([]string{"cssbase64", "-v", "--no-color", css}, env)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr.String(), "[css-base64] Embedded")
	assert.Contains(t, stderr.String(), "reason=not-found")
	assert.Contains(t, stdout.String(), "-> "+css)
}

func TestRunMain_Quiet(t *testing.T) {
	t.Parallel()

	_, css := siteDir(t)
	env, stdout, stderr := testEnv()

	code := runMain([]string{"cssbase64", "-q", css}, env)
	require.Equal(t, ExitSuccess, code)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunMain_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     func(dir string) []string
		vars     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no input",
			args:     func(string) []string { return []string{"cssbase64"} },
			wantCode: ExitIO,
			wantErr:  "no input specified",
		},
		{
			name:     "unknown flag",
			args:     func(string) []string { return []string{"cssbase64", "--nope", "a.css"} },
			wantCode: ExitUsage,
		},
		{
			name:     "missing file",
			args:     func(dir string) []string { return []string{"cssbase64", filepath.Join(dir, "missing.css")} },
			wantCode: ExitIO,
			wantErr:  "FAILED",
		},
		{
			name:     "config not found",
			args:     func(dir string) []string { return []string{"cssbase64", "-c", "no-such-cssbase64-config", "a.css"} },
			wantCode: ExitUsage,
			wantErr:  "hint: use --config",
		},
		{
			name:     "bad extension flag",
			args:     func(dir string) []string { return []string{"cssbase64", "--extensions", "png", "a.css"} },
			wantCode: ExitUsage,
			wantErr:  "hint: extensions start with a dot",
		},
		{
			name:     "bad pattern flag",
			args:     func(dir string) []string { return []string{"cssbase64", "--pattern", "url((", "a.css"} },
			wantCode: ExitUsage,
		},
		{
			name:     "bad timeout env",
			args:     func(dir string) []string { return []string{"cssbase64", "a.css"} },
			vars:     []string{"CSSBASE64_TIMEOUT=soon"},
			wantCode: ExitUsage,
			wantErr:  "timeout",
		},
		{
			name:     "unknown env var warns",
			args:     func(dir string) []string { return []string{"cssbase64", filepath.Join(dir, "missing.css")} },
			vars:     []string{"CSSBASE64_MAXWEIGHT=1"},
			wantCode: ExitIO,
			wantErr:  "unknown environment variable CSSBASE64_MAXWEIGHT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv(tt.vars...)
			code := runMain(tt.args(t.TempDir()), env)

			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr != "" {
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRunMain_VersionAndHelp(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	require.Equal(t, ExitSuccess, runMain([]string{"cssbase64", "--version"}, env))
	assert.Equal(t, "cssbase64 "+Version+"\n", stdout.String())

	env, stdout, _ = testEnv()
	require.Equal(t, ExitSuccess, runMain([]string{"cssbase64", "--help"}, env))
	assert.True(t, strings.HasPrefix(stdout.String(), "Usage: cssbase64"))
}

func TestWantsVerbose(t *testing.T) {
	t.Parallel()

	assert.True(t, wantsVerbose([]string{"x", "-v"}))
	assert.True(t, wantsVerbose([]string{"x", "a.css", "--verbose"}))
	assert.False(t, wantsVerbose([]string{"x", "--", "-v"}))
	assert.False(t, wantsVerbose([]string{"x"}))
	assert.False(t, wantsVerbose(nil))
}
