package cssbase64

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// SkipDirective is the comment that keeps a reference from being embedded
// when it follows the url(...) on the same line.
const SkipDirective = "/*base64:skip*/"

// DefaultPattern matches url(...), with optional quotes, unless SkipDirective
// appears later on the same line. Group 1 is the reference.
const DefaultPattern = `url(?:\(['|"]?)(.*?)(?:['|"]?\))(?!.*\/\*base64:skip\*\/)`

// patternMatchTimeout stops runaway backtracking in user-supplied patterns.
const patternMatchTimeout = 5 * time.Second

// PatternForDirective returns DefaultPattern with a different skip marker,
// e.g. PatternForDirective("/*inline:no*/").
func PatternForDirective(marker string) string {
	return `url(?:\(['|"]?)(.*?)(?:['|"]?\))(?!.*` + regexp2.Escape(marker) + `)`
}

// compilePattern compiles expr case-insensitively. Lookahead requires
// regexp2; the standard library's RE2 syntax has none.
func compilePattern(expr string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if len(re.GetGroupNumbers()) < 2 {
		return nil, fmt.Errorf("%w: %q has no capture group for the reference", ErrInvalidPattern, expr)
	}
	re.MatchTimeout = patternMatchTimeout
	return re, nil
}
