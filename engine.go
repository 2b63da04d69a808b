package cssbase64

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Event records what happened to one matched reference.
type Event struct {
	Reference string
	Reason    SkipReason // empty when the reference was embedded
	Cached    bool       // embedded from the document cache without resolving
	Size      int        // resource size in bytes, when known
	MIMEType  string
}

// Embedded reports whether the reference was replaced.
func (e Event) Embedded() bool {
	return e.Reason == ""
}

// Result is the outcome of rewriting one document.
type Result struct {
	Text   string
	Events []Event
}

// EmbeddedCount returns how many matches were replaced, cache hits included.
func (r *Result) EmbeddedCount() int {
	n := 0
	for _, ev := range r.Events {
		if ev.Embedded() {
			n++
		}
	}
	return n
}

// SkippedCount returns how many matches were left untouched.
func (r *Result) SkippedCount() int {
	return len(r.Events) - r.EmbeddedCount()
}

// Engine rewrites url(...) references in stylesheet text into data URIs.
// An Engine holds only immutable state; it is safe for concurrent use on
// different documents.
type Engine struct {
	cfg      Config
	pattern  *regexp2.Regexp
	allowed  map[string]struct{}
	resolver *Resolver
	fs       FileSystem
	logger   *slog.Logger
}

// NewEngine validates cfg and creates an Engine working on a private copy of it.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	pattern, err := compilePattern(cfg.Pattern)
	if err != nil {
		return nil, err
	}

	o := buildOptions(cfg, opts)

	return &Engine{
		cfg:      cfg,
		pattern:  pattern,
		allowed:  cfg.allowedSet(),
		resolver: newResolver(cfg, o),
		fs:       o.fs,
		logger:   o.logger,
	}, nil
}

// Config returns a copy of the engine's effective configuration.
func (e *Engine) Config() Config {
	out := e.cfg
	out.ExtensionsAllowed = slices.Clone(e.cfg.ExtensionsAllowed)
	return out
}

// Rewrite replaces every eligible reference in text with a data URI.
//
// References are resolved one at a time, left to right, against the text as
// rewritten so far. A reference that cannot be resolved, or is too large, is
// left exactly as written, and bytes outside rewritten references are copied
// as they are, invalid UTF-8 included. The only error is a failure of the
// pattern engine.
func (e *Engine) Rewrite(ctx context.Context, text, documentPath string) (*Result, error) {
	result := &Result{}
	cache := make(map[string]string)     // reference -> data URI
	pending := make(map[string]*copies) // data URI -> copies substituteAll put ahead of the scan
	logger := e.logger.With("document", documentPath)

	out := text
	idx := newRuneIndex(out)
	pos := 0 // rune index

	for pos <= len(idx.runes) {
		m, err := e.pattern.FindRunesMatchStartingAt(idx.runes, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPatternMatch, err)
		}
		if m == nil {
			break
		}

		if m.Length == 0 {
			pos = m.Index + 1
			continue
		}
		start, end := idx.span(m.Index, m.Length)
		g := m.GroupByNumber(1)
		gStart, gEnd := idx.span(g.Index, g.Length)
		reference := out[gStart:gEnd]

		var bytePos int
		switch {
		case cache[reference] != "":
			result.Events = append(result.Events, Event{Reference: reference, Cached: true})
			out, bytePos = substituteFirst(out, start, end, reference, cache[reference])

		case pending[reference].take():
			// A later duplicate already rewritten by substituteAll.
			result.Events = append(result.Events, Event{Reference: pending[reference].reference, Cached: true})
			pos = m.Index + m.Length
			continue

		default:
			dataURI, ev := e.embed(ctx, logger, reference, documentPath)
			result.Events = append(result.Events, ev)
			if !ev.Embedded() {
				pos = m.Index + m.Length
				continue
			}
			if e.cfg.AnchoredSubstitution {
				out, bytePos = substituteFirst(out, start, end, reference, dataURI)
			} else {
				var ahead int
				out, bytePos, ahead = substituteAll(out, start, end, reference, dataURI)
				if ahead > 0 {
					pending[dataURI] = &copies{reference: reference, n: ahead}
				}
			}
			cache[reference] = dataURI
		}

		idx = newRuneIndex(out)
		pos = idx.runeAt(bytePos)
	}

	result.Text = out
	return result, nil
}

// copies counts data URIs written ahead of the scan position for one
// reference. Only that many later matches are reported as cached; an
// identical data URI already present in the input stays already-embedded.
type copies struct {
	reference string
	n         int
}

func (c *copies) take() bool {
	if c == nil || c.n == 0 {
		return false
	}
	c.n--
	return true
}

// runeIndex pairs the runes the pattern engine scans with the byte offset
// of each rune in the original string. Invalid bytes decode to one
// utf8.RuneError each, so offsets stay exact.
type runeIndex struct {
	runes   []rune
	offsets []int // len(runes)+1 entries; the last is len(s)
}

func newRuneIndex(s string) runeIndex {
	idx := runeIndex{
		runes:   make([]rune, 0, len(s)),
		offsets: make([]int, 0, len(s)+1),
	}
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		idx.runes = append(idx.runes, r)
		idx.offsets = append(idx.offsets, i)
		i += w
	}
	idx.offsets = append(idx.offsets, len(s))
	return idx
}

// span converts a rune range to byte offsets.
func (idx runeIndex) span(index, length int) (int, int) {
	return idx.offsets[index], idx.offsets[index+length]
}

// runeAt returns the index of the first rune starting at or after byte offset b.
func (idx runeIndex) runeAt(b int) int {
	i, _ := slices.BinarySearch(idx.offsets, b)
	return i
}

// embed applies the exclusion and size rules around the resolver and
// returns the data URI for reference. Deletion happens here, after the
// resource has been accepted.
func (e *Engine) embed(ctx context.Context, logger *slog.Logger, reference, documentPath string) (string, Event) {
	ev := Event{Reference: reference}

	if !extensionAllowed(e.allowed, reference) {
		ev.Reason = SkipExtensionNotAllowed
		e.info(logger, "Ignores reference, extension not allowed", "reference", reference, "reason", ev.Reason)
		return "", ev
	}

	out := e.resolver.Resolve(ctx, reference, documentPath)
	if !out.Embedded() {
		ev.Reason = out.Reason
		args := []any{"reference", truncate(reference, 30), "reason", out.Reason}
		if out.Err != nil {
			args = append(args, "error", out.Err.Error())
		}
		e.info(logger, "Ignores reference", args...)
		return "", ev
	}

	res := out.Resource
	ev.Size = len(res.Data)
	ev.MIMEType = res.MIMEType

	if e.cfg.MaxWeightResource > 0 && len(res.Data) > e.cfg.MaxWeightResource {
		ev.Reason = SkipTooLarge
		e.info(logger, "Ignores reference, file is too big", "reference", reference, "reason", ev.Reason, "bytes", len(res.Data))
		return "", ev
	}

	dataURI := "data:" + res.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(res.Data)

	if e.cfg.DeleteAfterEncoding && res.Local {
		e.info(logger, "Delete source file", "path", res.Path)
		if err := e.fs.Remove(res.Path); err != nil {
			logger.Warn("Could not delete source file", "path", res.Path, "error", err.Error())
		}
	}

	e.info(logger, "Embedded", "reference", reference, "mime", res.MIMEType, "bytes", len(res.Data))
	return dataURI, ev
}

func (e *Engine) info(logger *slog.Logger, msg string, args ...any) {
	if e.cfg.Verbose {
		logger.Info(msg, args...)
	}
}

// substituteFirst replaces the first occurrence of old inside text[start:end]
// and returns the new text with the byte offset just past the rewritten match.
func substituteFirst(text string, start, end int, old, replacement string) (string, int) {
	match := strings.Replace(text[start:end], old, replacement, 1)
	return text[:start] + match + text[end:], start + len(match)
}

// substituteAll replaces every literal occurrence of old in the whole text.
// The text is split around the current match so the scan resumes right
// after it, whatever the replacement length. It also reports how many
// occurrences were replaced after the match.
func substituteAll(text string, start, end int, old, replacement string) (string, int, int) {
	before := strings.ReplaceAll(text[:start], old, replacement)
	match := strings.ReplaceAll(text[start:end], old, replacement)
	ahead := strings.Count(text[end:], old)
	after := strings.ReplaceAll(text[end:], old, replacement)
	return before + match + after, len(before) + len(match), ahead
}

// truncate shortens long references (data URIs) for log output.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
