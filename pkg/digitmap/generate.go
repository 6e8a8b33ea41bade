package digitmap

import (
	"errors"
	"strings"

	"github.com/velotel/dialmap/pkg/dialplan"
)

// Extension names the dialplan reserves for special targets; they are
// never dialable and never belong in a digit map.
var reservedExtens = map[string]struct{}{
	"a": {}, "i": {}, "s": {}, "t": {},
}

// generator carries the traversal state for one generation pass: the
// active include stack (cycle guard and ignore-pattern scope), the
// shared bounded output buffer, and accumulated warnings.
type generator struct {
	reg      *dialplan.Registry
	acc      *accumulator
	stack    []string
	maxDepth int
	warnings []Warning
}

// generate emits the digit map entries for one context and recurses into
// its includes. prefix holds the digits parent includes already
// contributed; every pattern emitted here starts with it. Returns the
// number of bytes this call appended across its whole subtree.
func (g *generator) generate(prefix, context string) (int, error) {
	c, ok := g.reg.Find(context)
	if !ok {
		return 0, ErrContextNotFound
	}

	g.stack = append(g.stack, context)
	defer func() {
		g.stack = g.stack[:len(g.stack)-1]
	}()

	start := g.acc.len()

	c.RLock()
	defer c.RUnlock()

	for _, ext := range c.Extensions() {
		if err := g.emitExtension(prefix, ext); err != nil {
			return 0, err
		}
	}

	for _, raw := range c.Includes() {
		target, subPrefix := dialplan.ParseIncludeSpec(raw)
		if target == "" {
			g.warnings = append(g.warnings, Warning{
				Kind:    WarnContextNotFound,
				Context: context,
				Detail:  "empty include target in " + strings.TrimSpace(raw),
			})
			continue
		}
		if g.onStack(target) {
			g.warnings = append(g.warnings, Warning{
				Kind:    WarnCircularInclude,
				Context: context,
				Detail:  "avoiding circular include of " + target,
			})
			continue
		}
		if len(g.stack) >= g.maxDepth {
			g.warnings = append(g.warnings, Warning{
				Kind:    WarnMaxDepthExceeded,
				Context: context,
				Detail:  "maximum include depth exceeded at " + target,
			})
			continue
		}
		_, err := g.generate(prefix+subPrefix, target)
		switch {
		case err == nil:
		case errors.Is(err, ErrContextNotFound):
			// A dangling include must not abort the rest of the tree.
			g.warnings = append(g.warnings, Warning{
				Kind:    WarnContextNotFound,
				Context: context,
				Detail:  "include of nonexistent context " + target,
			})
		default:
			return 0, err
		}
	}

	return g.acc.len() - start, nil
}

// emitExtension appends one "|<prefix><translated pattern>" alternative,
// inserting the second-dial-tone marker after the first dialed digit when
// an ignore pattern in the active hierarchy covers it.
func (g *generator) emitExtension(prefix string, ext dialplan.Extension) error {
	// Only priority 1 entries are dialable targets; hints and
	// continuation priorities are not.
	if ext.Priority != 1 {
		return nil
	}
	name := strings.TrimPrefix(ext.Name, "_")
	if name == "" {
		return nil
	}
	if _, reserved := reservedExtens[name]; reserved {
		return nil
	}

	// The first digit the caller actually keys: with a prefix in effect
	// the prefix digits come first, so ignore patterns apply to those.
	first := name[:1]
	if prefix != "" {
		first = prefix[:1]
	}
	ignorepat := false
	for _, ctx := range g.stack {
		if g.reg.IgnorePatternActive(ctx, first) {
			ignorepat = true
			break
		}
	}

	if err := g.acc.appendByte('|'); err != nil {
		return err
	}
	if err := g.acc.appendString(prefix); err != nil {
		return err
	}
	if prefix != "" && ignorepat {
		// Second dial tone fires right after the prefix digits.
		if err := g.acc.appendByte(','); err != nil {
			return err
		}
		ignorepat = false
	}

	tr := newTranslator(g.currentContext(), ext.Name)
	for i := 0; i < len(name); i++ {
		if err := g.acc.appendString(tr.translateChar(name[i])); err != nil {
			return err
		}
		if ignorepat {
			// No prefix: the first pattern character is the first
			// dialed digit, so the marker follows its translation.
			if err := g.acc.appendByte(','); err != nil {
				return err
			}
			ignorepat = false
		}
	}
	g.warnings = append(g.warnings, tr.warnings...)
	return nil
}

func (g *generator) onStack(context string) bool {
	for _, s := range g.stack {
		if strings.EqualFold(s, context) {
			return true
		}
	}
	return false
}

func (g *generator) currentContext() string {
	if len(g.stack) == 0 {
		return ""
	}
	return g.stack[len(g.stack)-1]
}
