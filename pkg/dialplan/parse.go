package dialplan

import (
	"fmt"
	"strconv"
	"strings"
)

// parseState tracks priority resolution while reading one context, so
// "n" priorities resolve relative to the previous line for the same
// extension name.
type parseState struct {
	lastExten string
	lastPrio  int
}

// ParseFile parses extensions.conf-style content into contexts.
// Section order and entry order within each section are preserved.
// [general] and [globals] sections are skipped.
func ParseFile(path, content string) ([]*Context, error) {
	var (
		contexts []*Context
		current  *Context
		st       parseState
	)

	for ln, raw := range strings.Split(content, "\n") {
		line := stripComment(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, fmt.Errorf("%s:%d: unterminated section header", path, ln+1)
			}
			name := strings.TrimSpace(line[1:end])
			if name == "" {
				return nil, fmt.Errorf("%s:%d: empty section name", path, ln+1)
			}
			st = parseState{}
			if name == "general" || name == "globals" {
				current = nil
				continue
			}
			current = &Context{name: name}
			contexts = append(contexts, current)
			continue
		}

		key, value, ok := splitDirective(line)
		if !ok {
			// Assignments outside contexts (general options) are not ours.
			if current == nil {
				continue
			}
			return nil, fmt.Errorf("%s:%d: expected 'key => value', got %q", path, ln+1, line)
		}
		if current == nil {
			continue
		}

		switch key {
		case "exten":
			ext, err := parseExten(value, &st)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, ln+1, err)
			}
			current.extensions = append(current.extensions, ext)
		case "same":
			ext, err := parseSame(value, &st)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, ln+1, err)
			}
			current.extensions = append(current.extensions, ext)
		case "include":
			if strings.TrimSpace(value) == "" {
				return nil, fmt.Errorf("%s:%d: empty include", path, ln+1)
			}
			current.includes = append(current.includes, strings.TrimSpace(value))
		case "ignorepat":
			if strings.TrimSpace(value) == "" {
				return nil, fmt.Errorf("%s:%d: empty ignorepat", path, ln+1)
			}
			current.ignorepats = append(current.ignorepats, strings.TrimSpace(value))
		case "switch", "eswitch", "lswitch":
			// Alternative switch providers are not relevant to local matching.
		default:
			return nil, fmt.Errorf("%s:%d: unknown directive %q", path, ln+1, key)
		}
	}
	return contexts, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func splitDirective(line string) (key, value string, ok bool) {
	i := strings.Index(line, "=>")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+2:]), true
}

// parseExten parses "name,priority,app(args)". The application part may
// itself contain commas, so only the first two fields are split off.
func parseExten(value string, st *parseState) (Extension, error) {
	fields := strings.SplitN(value, ",", 3)
	if len(fields) < 2 {
		return Extension{}, fmt.Errorf("malformed exten %q", value)
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return Extension{}, fmt.Errorf("malformed exten %q: empty name", value)
	}
	prio, err := resolvePriority(strings.TrimSpace(fields[1]), name, st)
	if err != nil {
		return Extension{}, err
	}
	app := ""
	if len(fields) == 3 {
		app = strings.TrimSpace(fields[2])
	}
	st.lastExten = name
	st.lastPrio = prio
	return Extension{Name: name, Priority: prio, App: app}, nil
}

// parseSame parses "priority,app(args)", reusing the previous exten name.
func parseSame(value string, st *parseState) (Extension, error) {
	if st.lastExten == "" {
		return Extension{}, fmt.Errorf("'same' with no preceding exten")
	}
	return parseExten(st.lastExten+","+value, st)
}

func resolvePriority(p, exten string, st *parseState) (int, error) {
	// Strip a priority label, e.g. n(loop).
	if i := strings.IndexByte(p, '('); i >= 0 {
		p = p[:i]
	}
	switch p {
	case "n":
		if st.lastExten == exten {
			return st.lastPrio + 1, nil
		}
		// 'n' without an anchor never resolves to priority 1.
		return 2, nil
	case "hint":
		return 0, nil
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid priority %q", p)
	}
	return n, nil
}
