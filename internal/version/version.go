// Package version carries build metadata stamped via -ldflags.
package version

import "strings"

var (
	// Version is the release version, e.g. v0.3.1.
	Version = "dev"
	// Commit is the short git revision.
	Commit = ""
)

func Get() string {
	var b strings.Builder
	b.WriteString("dialmap ")
	b.WriteString(Version)
	if c := strings.TrimSpace(Commit); c != "" {
		b.WriteString(" (")
		b.WriteString(c)
		b.WriteString(")")
	}
	return b.String()
}
