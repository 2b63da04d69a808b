package cssbase64

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-cssbase64/internal/fetch"
	"github.com/alnah/go-cssbase64/internal/fileutil"
)

// DefaultMaxWeightResource is the size limit used by DefaultConfig (32KB).
const DefaultMaxWeightResource = 32768

// DefaultTimeout bounds each remote fetch when Config.Timeout is zero.
const DefaultTimeout = fetch.DefaultTimeout

// Config controls how references are matched, resolved, and embedded.
// The zero value is usable: no size limit, all extensions, default pattern.
type Config struct {
	// MaxWeightResource is the largest resource, in bytes, that gets embedded.
	// 0 disables the limit.
	MaxWeightResource int

	// ExtensionsAllowed restricts eligible references by extension (".png").
	// Empty allows every extension. Comparison ignores case.
	ExtensionsAllowed []string

	// BaseDir is prepended to references. "/x" resolves to BaseDir+"/x";
	// "x" resolves to <document dir>/BaseDir/x.
	BaseDir string

	// DeleteAfterEncoding removes local source files once embedded.
	DeleteAfterEncoding bool

	// Pattern overrides reference detection. Capture group 1 must hold the
	// reference. Empty means DefaultPattern.
	Pattern string

	// AnchoredSubstitution replaces the reference only inside the matched
	// url(...) span instead of every literal occurrence in the document.
	AnchoredSubstitution bool

	// Verbose enables informational logging of every skip and embed.
	Verbose bool

	// Timeout bounds each remote fetch. 0 means DefaultTimeout.
	Timeout time.Duration
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		MaxWeightResource: DefaultMaxWeightResource,
		Pattern:           DefaultPattern,
		Timeout:           DefaultTimeout,
	}
}

// Validate checks that the configuration is usable.
// Does not mutate; the engine applies defaults to its own copy.
func (c Config) Validate() error {
	if c.MaxWeightResource < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 disables the limit)", ErrInvalidMaxWeight, c.MaxWeightResource)
	}

	for _, ext := range c.ExtensionsAllowed {
		if err := fileutil.ValidateExtension(ext); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidExtension, ext, err)
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: %v (must be >= 0)", ErrInvalidTimeout, c.Timeout)
	}

	if c.Pattern != "" {
		if _, err := compilePattern(c.Pattern); err != nil {
			return err
		}
	}

	return nil
}

// withDefaults returns a copy with empty fields filled in. The caller's
// slices are cloned so later mutation by the caller cannot leak in.
func (c Config) withDefaults() Config {
	out := c
	out.ExtensionsAllowed = slices.Clone(c.ExtensionsAllowed)
	if out.Pattern == "" {
		out.Pattern = DefaultPattern
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	return out
}

// allowedSet builds the lookup used for extension filtering, or nil when
// every extension is allowed.
func (c Config) allowedSet() map[string]struct{} {
	if len(c.ExtensionsAllowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(c.ExtensionsAllowed))
	for _, ext := range c.ExtensionsAllowed {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

// extensionAllowed reports whether reference passes the allow-list.
// The query and fragment are ignored.
func extensionAllowed(allowed map[string]struct{}, reference string) bool {
	if allowed == nil {
		return true
	}
	_, ok := allowed[strings.ToLower(fileutil.Ext(reference))]
	return ok
}

// PreProcessFunc transforms a resolved local resource before it is encoded.
// The returned bytes replace res.Data for size checks and encoding.
type PreProcessFunc func(ctx context.Context, res Resource) ([]byte, error)

// Option configures collaborators that cannot live in Config.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	fs         FileSystem
	preProcess PreProcessFunc
}

// WithHTTPClient sets the client used for remote references.
// The client's own Timeout takes precedence over Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger. Informational messages are still gated by
// Config.Verbose; warnings are always emitted.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFileSystem replaces the operating system file access used for local references.
func WithFileSystem(fsys FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithPreProcess sets a hook that transforms local resource bytes before encoding.
// Remote resources are embedded as fetched; the hook is not called for them.
func WithPreProcess(fn PreProcessFunc) Option {
	return func(o *options) {
		o.preProcess = fn
	}
}
