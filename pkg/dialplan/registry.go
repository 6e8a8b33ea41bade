package dialplan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry indexes dialplan contexts by name and supports atomic reload
// from a directory of *.conf files. Lookups return live *Context values;
// a reload replaces the index but never mutates contexts handed out
// earlier, so an in-flight generation keeps a consistent snapshot.
type Registry struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	names    []string
}

// LoadResult reports the outcome of a directory reload.
type LoadResult struct {
	Contexts []string
	// SkippedFiles holds files that failed to parse during a lenient
	// runtime reload, with the parse error message.
	SkippedFiles map[string]string
}

func NewRegistry() *Registry {
	return &Registry{contexts: map[string]*Context{}}
}

// ReloadFromDir parses every *.conf file under dir and swaps the context
// index. Files that fail to parse are skipped and reported in the result;
// a directory that cannot be read at all is an error and leaves the
// previous index in place.
func (r *Registry) ReloadFromDir(dir string) (LoadResult, error) {
	d := strings.TrimSpace(dir)
	if d == "" {
		return LoadResult{}, fmt.Errorf("dialplan dir is empty")
	}
	entries, err := os.ReadDir(d)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read dialplan dir %q: %w", d, err)
	}

	next := map[string]*Context{}
	var names []string
	res := LoadResult{SkippedFiles: map[string]string{}}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".conf" {
			continue
		}
		path := filepath.Join(d, entry.Name())
		// #nosec G304 -- dialplan dir comes from trusted config/flag.
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			res.SkippedFiles[path] = readErr.Error()
			continue
		}
		contexts, parseErr := ParseFile(path, string(b))
		if parseErr != nil {
			res.SkippedFiles[path] = parseErr.Error()
			continue
		}
		for _, c := range contexts {
			if prev, ok := next[c.name]; ok {
				// Same context defined again: merge entries, Asterisk style.
				prev.mu.Lock()
				prev.extensions = append(prev.extensions, c.extensions...)
				prev.includes = append(prev.includes, c.includes...)
				prev.ignorepats = append(prev.ignorepats, c.ignorepats...)
				prev.mu.Unlock()
				continue
			}
			next[c.name] = c
			names = append(names, c.name)
		}
	}
	sort.Strings(names)
	res.Contexts = names

	r.mu.Lock()
	r.contexts = next
	r.names = names
	r.mu.Unlock()
	return res, nil
}

// LoadString parses conf content into the registry, replacing the index.
// Intended for tests and one-shot tooling.
func (r *Registry) LoadString(content string) error {
	contexts, err := ParseFile("<string>", content)
	if err != nil {
		return err
	}
	next := map[string]*Context{}
	var names []string
	for _, c := range contexts {
		if _, ok := next[c.name]; ok {
			return fmt.Errorf("duplicate context %q", c.name)
		}
		next[c.name] = c
		names = append(names, c.name)
	}
	sort.Strings(names)

	r.mu.Lock()
	r.contexts = next
	r.names = names
	r.mu.Unlock()
	return nil
}

// Find returns the context registered under name.
func (r *Registry) Find(name string) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contexts[name]
	return c, ok
}

// Names returns the sorted context names currently loaded.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// IgnorePatternActive reports whether dialing digits in the named context
// triggers an ignore pattern, i.e. the device should report a second dial
// tone before collecting further digits.
func (r *Registry) IgnorePatternActive(context string, digits string) bool {
	c, ok := r.Find(context)
	if !ok {
		return false
	}
	c.RLock()
	defer c.RUnlock()
	for _, pat := range c.ignorepats {
		if matchPattern(pat, digits) {
			return true
		}
	}
	return false
}
