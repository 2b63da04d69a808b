// Package mediatype maps resources to the MIME type written into data URIs.
//
// Lookup is by extension first, using a fixed table so output does not depend
// on the host's mime.types files. Unknown extensions fall back to content
// sniffing, then to application/octet-stream.
package mediatype

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alnah/go-cssbase64/internal/fileutil"
)

// Fallback is used when neither the extension nor the content identify the resource.
const Fallback = "application/octet-stream"

// known covers the assets stylesheets usually reference.
var known = map[string]string{
	".apng":  "image/apng",
	".avif":  "image/avif",
	".bmp":   "image/bmp",
	".cur":   "image/x-icon",
	".eot":   "application/vnd.ms-fontobject",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".otf":   "font/otf",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".tif":   "image/tiff",
	".tiff":  "image/tiff",
	".ttf":   "font/ttf",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// ForExtension returns the MIME type for ext (".png"), or "" if unknown.
// Parameters such as "; charset=utf-8" are dropped.
func ForExtension(ext string) string {
	ext = strings.ToLower(ext)
	if t, ok := known[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// ForPath returns the MIME type for a file path or URL path. The query and
// fragment are ignored. data is sniffed only when the extension is unknown.
func ForPath(p string, data []byte) string {
	if t := ForExtension(path.Ext(fileutil.StripQueryFragment(p))); t != "" {
		return t
	}
	return Sniff(data)
}

// Sniff detects the MIME type from content alone.
func Sniff(data []byte) string {
	if len(data) == 0 {
		return Fallback
	}
	t := mimetype.Detect(data)
	if t == nil {
		return Fallback
	}
	// text/plain is mimetype's catch-all for printable input; it says nothing useful.
	if t.Is("application/octet-stream") || t.Is("text/plain") {
		return Fallback
	}
	mt := t.String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
