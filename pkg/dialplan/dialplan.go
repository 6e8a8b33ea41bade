// Package dialplan loads and indexes Asterisk-style routing configuration:
// named contexts holding ordered extension patterns, include references to
// other contexts, and per-context ignore patterns.
//
// The package is the read side consumed by pkg/digitmap. A Registry owns the
// context index and supports atomic reload from a directory of *.conf files;
// individual contexts carry their own read locks so a generation pass can
// enumerate one context at a time while a reload is pending.
package dialplan

import (
	"strings"
	"sync"
)

// MaxIncludeDepth bounds include nesting during any context traversal.
// It matches the dialplan engine stack bound of the host PBX.
const MaxIncludeDepth = 128

// Extension is one dial-match rule registered in a context.
// Name may carry a leading '_' marking it as a wildcard pattern.
type Extension struct {
	Name     string
	Priority int
	// App is the application dispatched at this priority, with arguments.
	// It is informational here; digit map generation only looks at
	// Name and Priority.
	App string
}

// Context is a named bucket of dial-match rules. All enumeration methods
// require the caller to hold the context read lock.
type Context struct {
	name string

	mu         sync.RWMutex
	extensions []Extension
	includes   []string
	ignorepats []string
}

func (c *Context) Name() string { return c.name }

// RLock acquires the context for read enumeration. Scope each acquisition
// around a single context's enumeration; recursing into an included context
// acquires that context's own lock.
func (c *Context) RLock()   { c.mu.RLock() }
func (c *Context) RUnlock() { c.mu.RUnlock() }

// Extensions returns the context's extension entries in registration order.
// Caller must hold the read lock for the duration of use.
func (c *Context) Extensions() []Extension { return c.extensions }

// Includes returns the raw include specs in registration order.
// Caller must hold the read lock for the duration of use.
func (c *Context) Includes() []string { return c.includes }

// IgnorePats returns the context's ignore patterns.
// Caller must hold the read lock for the duration of use.
func (c *Context) IgnorePats() []string { return c.ignorepats }

// ParseIncludeSpec splits a raw include entry into its target context name
// and the optional dial prefix carried as the second positional argument,
// e.g. "longdistance|ld|1" targets "longdistance" with prefix "1".
// A time-spec suffix after ',' on the name is dropped.
func ParseIncludeSpec(raw string) (name, prefix string) {
	name = raw
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		name = raw[:i]
		args := raw[i+1:]
		if j := strings.IndexByte(args, '|'); j >= 0 {
			prefix = args[j+1:]
		}
	}
	if k := strings.IndexByte(name, ','); k >= 0 {
		name = name[:k]
	}
	return strings.TrimSpace(name), strings.TrimSpace(prefix)
}
