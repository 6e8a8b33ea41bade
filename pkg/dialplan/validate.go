package dialplan

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationWarning is one finding from a dialplan consistency pass.
type ValidationWarning struct {
	Context string
	Detail  string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("context %q: %s", w.Context, w.Detail)
}

// Validate crawls every loaded context and reports structural problems
// that would degrade traversal: dangling include targets, circular
// include chains, and include nesting beyond the engine stack bound.
// Findings are warnings; the dialplan stays usable around them.
func (r *Registry) Validate() []ValidationWarning {
	var warnings []ValidationWarning
	for _, name := range r.Names() {
		warnings = append(warnings, r.validateContext(name, nil)...)
	}
	return dedupeWarnings(warnings)
}

func (r *Registry) validateContext(name string, stack []string) []ValidationWarning {
	c, ok := r.Find(name)
	if !ok {
		parent := ""
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		return []ValidationWarning{{
			Context: parent,
			Detail:  fmt.Sprintf("include of nonexistent context %q", name),
		}}
	}

	for _, seen := range stack {
		if strings.EqualFold(seen, name) {
			return []ValidationWarning{{
				Context: name,
				Detail:  fmt.Sprintf("circular include chain %s", strings.Join(append(stack, name), " -> ")),
			}}
		}
	}
	if len(stack) >= MaxIncludeDepth {
		return []ValidationWarning{{
			Context: name,
			Detail:  fmt.Sprintf("include nesting exceeds %d", MaxIncludeDepth),
		}}
	}
	stack = append(stack, name)

	c.RLock()
	includes := append([]string(nil), c.includes...)
	c.RUnlock()

	var warnings []ValidationWarning
	for _, raw := range includes {
		target, _ := ParseIncludeSpec(raw)
		if target == "" {
			warnings = append(warnings, ValidationWarning{
				Context: name,
				Detail:  fmt.Sprintf("empty include target in %q", raw),
			})
			continue
		}
		warnings = append(warnings, r.validateContext(target, stack)...)
	}
	return warnings
}

func dedupeWarnings(in []ValidationWarning) []ValidationWarning {
	seen := map[string]struct{}{}
	out := make([]ValidationWarning, 0, len(in))
	for _, w := range in {
		key := w.Context + "\x00" + w.Detail
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context < out[j].Context
		}
		return out[i].Detail < out[j].Detail
	})
	return out
}
