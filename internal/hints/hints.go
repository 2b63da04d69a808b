// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-cssbase64/internal/config"
)

// ForConfigNotFound suggests --config or creating a file in the user
// config directory, picked from the paths that were searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, config.AppName) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForConfigInvalid points at the documented keys.
func ForConfigInvalid() string {
	return format("valid keys: maxWeightResource, extensionsAllowed, baseDir, deleteAfterEncoding, " +
		"pattern, anchoredSubstitution, verbose, timeout, output.dir, workers")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForExtension explains the allow-list format.
func ForExtension() string {
	return format(`extensions start with a dot, e.g. --extensions .png,.svg`)
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
