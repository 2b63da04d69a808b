// Package cssbase64 inlines stylesheet resources as base64 data URIs.
//
// # Quick Start
//
// Create an engine and rewrite a stylesheet:
//
//	engine, err := cssbase64.NewEngine(cssbase64.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := engine.Rewrite(ctx, css, "styles/site.css")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("dist/site.css", []byte(result.Text), 0644)
//
// Every url(...) whose target can be read is replaced with
// data:<mime>;base64,<payload>. Result.Events lists what happened to each
// reference.
//
// # Resolution
//
// References are classified in order:
//
//  1. data: URIs are left alone (already embedded)
//  2. "#id" references are SVG mask anchors and are left alone
//  3. http://, https:// and protocol-relative "//host" references are fetched
//     with one GET request
//  4. anything else is a local file, relative to the stylesheet's directory,
//     or to Config.BaseDir when it starts with "/"
//
// A reference that cannot be resolved, has a disallowed extension, or is
// larger than Config.MaxWeightResource stays exactly as written. Resolution
// failures never fail the document.
//
// # Skipping References
//
// Add the skip directive after a declaration to keep it as a URL:
//
//	.logo { background: url(logo.png); } /*base64:skip*/
//
// Use PatternForDirective to build a pattern with a different marker.
//
// # Concurrency
//
// Within one document references are resolved sequentially, left to right,
// because each substitution changes the text the next match is searched in.
// Repeated references are resolved once and served from a per-call cache.
// An Engine itself is immutable, so separate documents can be rewritten
// concurrently with the same Engine.
package cssbase64
