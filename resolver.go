package cssbase64

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-cssbase64/internal/fetch"
	"github.com/alnah/go-cssbase64/internal/fileutil"
	"github.com/alnah/go-cssbase64/internal/logging"
	"github.com/alnah/go-cssbase64/internal/mediatype"
)

// SkipReason explains why a reference was left untouched.
type SkipReason string

// Skip reasons.
const (
	SkipAlreadyEmbedded     SkipReason = "already-embedded"
	SkipSVGMask             SkipReason = "svg-mask-anchor"
	SkipExtensionNotAllowed SkipReason = "extension-not-allowed"
	SkipNotFound            SkipReason = "not-found"
	SkipReadFailed          SkipReason = "read-failed"
	SkipPreProcessFailed    SkipReason = "preprocess-failed"
	SkipFetchFailed         SkipReason = "fetch-failed"
	SkipTooLarge            SkipReason = "too-large" // over MaxWeightResource, or a remote body over the fetch cap
)

// Resource is resolved binary content ready to be encoded.
type Resource struct {
	MIMEType string
	Data     []byte
	Path     string // file path for local resources, URL for remote ones
	Local    bool
}

// Outcome is the result of resolving one reference: either a Resource or a
// skip Reason, never both. Err carries the underlying cause of a skip, if any.
type Outcome struct {
	Resource *Resource
	Reason   SkipReason
	Err      error
}

// Embedded reports whether the outcome carries a resource.
func (o Outcome) Embedded() bool {
	return o.Resource != nil
}

func embedded(res *Resource) Outcome {
	return Outcome{Resource: res}
}

func skip(reason SkipReason, err error) Outcome {
	return Outcome{Reason: reason, Err: err}
}

// Resolver turns a raw reference into bytes. It knows nothing about the
// document text and keeps no per-document state, so one Resolver may serve
// many documents concurrently.
type Resolver struct {
	baseDir    string
	allowed    map[string]struct{}
	fs         FileSystem
	fetcher    *fetch.Fetcher
	preProcess PreProcessFunc
	logger     *slog.Logger
	verbose    bool
}

// NewResolver creates a Resolver from a validated copy of cfg.
func NewResolver(cfg Config, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	o := buildOptions(cfg, opts)
	return newResolver(cfg, o), nil
}

func newResolver(cfg Config, o *options) *Resolver {
	return &Resolver{
		baseDir:    cfg.BaseDir,
		allowed:    cfg.allowedSet(),
		fs:         o.fs,
		fetcher:    fetch.New(o.httpClient, cfg.Timeout),
		preProcess: o.preProcess,
		logger:     o.logger,
		verbose:    cfg.Verbose,
	}
}

func buildOptions(cfg Config, opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.fs == nil {
		o.fs = osFileSystem{}
	}
	if o.logger == nil {
		if cfg.Verbose {
			o.logger = logging.New(os.Stderr, nil)
		} else {
			o.logger = logging.Discard()
		}
	}
	return o
}

// Resolve classifies reference and produces its content or a skip reason.
// documentPath is the stylesheet the reference appears in; relative
// references resolve against its directory.
func (r *Resolver) Resolve(ctx context.Context, reference, documentPath string) Outcome {
	switch {
	case fileutil.IsDataURI(reference):
		return skip(SkipAlreadyEmbedded, nil)
	case strings.HasPrefix(reference, "#"):
		return skip(SkipSVGMask, nil)
	case fileutil.IsRemote(reference):
		return r.resolveRemote(ctx, reference)
	default:
		return r.resolveLocal(ctx, reference, documentPath)
	}
}

func (r *Resolver) resolveRemote(ctx context.Context, reference string) Outcome {
	target := reference
	if fileutil.IsProtocolRelative(target) {
		target = "http:" + target
	}

	r.info("Fetch", "url", target)

	result, err := r.fetcher.Get(ctx, target)
	if errors.Is(err, fetch.ErrBodyTooLarge) {
		return skip(SkipTooLarge, err)
	}
	if err != nil {
		return skip(SkipFetchFailed, err)
	}

	return embedded(&Resource{
		MIMEType: remoteMIMEType(target, result),
		Data:     result.Body,
		Path:     target,
	})
}

// remoteMIMEType prefers the URL path's extension, then the response
// Content-Type, then the content itself.
func remoteMIMEType(target string, result *fetch.Result) string {
	urlPath := target
	if u, err := url.Parse(target); err == nil {
		urlPath = u.Path
	}
	if t := mediatype.ForExtension(path.Ext(urlPath)); t != "" {
		return t
	}
	if ct := result.ContentType; ct != "" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
		if ct = strings.TrimSpace(ct); ct != "" {
			return ct
		}
	}
	return mediatype.Sniff(result.Body)
}

func (r *Resolver) resolveLocal(ctx context.Context, reference, documentPath string) Outcome {
	if !extensionAllowed(r.allowed, reference) {
		return skip(SkipExtensionNotAllowed, nil)
	}

	location := r.location(reference, documentPath)

	info, err := r.fs.Stat(location)
	if err != nil {
		return skip(SkipNotFound, err)
	}
	if info.IsDir() {
		return skip(SkipNotFound, fmt.Errorf("%s is a directory", location))
	}

	data, err := r.fs.ReadFile(location)
	if err != nil {
		return skip(SkipReadFailed, err)
	}

	res := &Resource{Data: data, Path: location, Local: true}

	if r.preProcess != nil {
		processed, err := r.preProcess(ctx, *res)
		if err != nil {
			return skip(SkipPreProcessFailed, err)
		}
		res.Data = processed
	}

	res.MIMEType = mediatype.ForPath(location, res.Data)
	return embedded(res)
}

// location maps a local reference to a file path. A leading "/" makes the
// reference relative to baseDir; anything else is relative to the
// document's directory with baseDir inserted in between. The query and
// fragment are not part of the file name.
func (r *Resolver) location(reference, documentPath string) string {
	ref := fileutil.StripQueryFragment(reference)
	if strings.HasPrefix(ref, "/") {
		return filepath.FromSlash(r.baseDir + ref)
	}
	return filepath.Join(filepath.Dir(documentPath), filepath.FromSlash(r.baseDir+"/"+ref))
}

func (r *Resolver) info(msg string, args ...any) {
	if r.verbose {
		r.logger.Info(msg, args...)
	}
}
