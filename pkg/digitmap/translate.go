package digitmap

import "strings"

// translator converts one extension pattern into device digit map
// grammar, one character at a time. It tracks single-level bracket class
// state so unrepresentable classes can be flagged; state is reset per
// pattern by constructing a fresh translator.
type translator struct {
	context string
	exten   string // original extension name, for warnings

	inPattern int
	items     int // standalone digits in the open class
	ranges    int // ranges in the open class

	warnings []Warning
}

func newTranslator(context, exten string) *translator {
	return &translator{context: context, exten: exten}
}

// translateChar returns the device grammar output for one source
// character. Untranslatable characters copy through unchanged.
func (t *translator) translateChar(c byte) string {
	switch c {
	case 'N':
		// Devices don't understand N or Z; expand to explicit classes.
		return "[2-9]"
	case 'Z':
		return "[1-9]"
	case 'X':
		// Devices do recognize the single-digit wildcard, but lowercase.
		return "x"
	case '!':
		// Match immediately, no more digits expected.
		return "S0"
	case '[':
		t.inPattern++
		if t.inPattern > 1 {
			t.warn("nested bracket class")
			t.inPattern = 1
		}
		t.items, t.ranges = 0, 0
	case ']':
		t.inPattern--
		if t.inPattern < 0 {
			t.warn("unmatched ']'")
			t.inPattern = 0
		}
		if t.ranges > 0 && t.items > 1 {
			// Devices reject classes mixing a bare digit with a range,
			// e.g. [02-9]; either 0 and 2-9 separately or [023456789].
			t.warn("class mixes digits and ranges, not representable in digit map")
		}
		t.items, t.ranges = 0, 0
	default:
		if t.inPattern > 0 {
			switch c {
			case '.':
				t.warn("period inside bracket class")
			case '-':
				t.items--
				t.ranges++
			default:
				t.items++
			}
		}
	}
	return string(c)
}

func (t *translator) warn(detail string) {
	t.warnings = append(t.warnings, Warning{
		Kind:    WarnMalformedPattern,
		Context: t.context,
		Pattern: t.exten,
		Detail:  detail,
	})
}

// Translate converts a whole pattern (without its '_' sentinel) into
// device digit map grammar, returning any malformed-pattern warnings.
// The result contains no further N or Z tokens, so re-translating it
// yields the same string.
func Translate(pattern string) (string, []Warning) {
	t := newTranslator("", pattern)
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		b.WriteString(t.translateChar(pattern[i]))
	}
	return b.String(), t.warnings
}
