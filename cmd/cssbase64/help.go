package main

import (
	"fmt"
	"io"
)

// printUsage prints the command usage.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cssbase64 [flags] <file.css>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inline url(...) resources of stylesheets as base64 data URIs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>             Output directory (default: rewrite in place)")
	fmt.Fprintln(w, "  -c, --config <name>            Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>              Parallel documents (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Embedding:")
	fmt.Fprintln(w, "      --max-weight <bytes>       Largest resource to embed (default 32768, 0 = no limit)")
	fmt.Fprintln(w, "      --extensions <list>        Allowed extensions, e.g. .png,.svg")
	fmt.Fprintln(w, "      --base-dir <dir>           Directory prepended to references")
	fmt.Fprintln(w, "      --delete-after-encoding    Delete local files once embedded")
	fmt.Fprintln(w, "      --pattern <regexp>         Custom reference pattern")
	fmt.Fprintln(w, "      --anchored                 Replace only inside the matched url(...)")
	fmt.Fprintln(w, "  -t, --timeout <dur>            Remote fetch timeout (default 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet                    Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                  Log every reference")
	fmt.Fprintln(w, "      --no-color                 Disable colored log output")
	fmt.Fprintln(w, "      --version                  Print version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Skip a reference by ending its line with /*base64:skip*/.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CSSBASE64_* variables (and a .env file in the working directory)")
	fmt.Fprintln(w, "  override the config file; flags override both.")
}
