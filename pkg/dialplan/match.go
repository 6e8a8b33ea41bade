package dialplan

import "strings"

// matchPattern reports whether dialed matches an extension pattern.
// A leading '_' selects wildcard matching (N, Z, X, [..] classes, '.', '!');
// anything else must match literally, as the PBX does.
func matchPattern(pattern, dialed string) bool {
	if !strings.HasPrefix(pattern, "_") {
		return pattern == dialed
	}
	return matchWildcard(pattern[1:], dialed)
}

func matchWildcard(pattern, dialed string) bool {
	pi := 0
	for di := 0; di < len(dialed); di++ {
		if pi >= len(pattern) {
			return false
		}
		switch pattern[pi] {
		case '.':
			// any remaining digits, at least the current one
			return true
		case '!':
			return true
		case '[':
			end := strings.IndexByte(pattern[pi:], ']')
			if end < 0 {
				return false
			}
			if !matchClass(pattern[pi+1:pi+end], dialed[di]) {
				return false
			}
			pi += end + 1
		default:
			if !matchDigit(pattern[pi], dialed[di]) {
				return false
			}
			pi++
		}
	}
	// Dialed string exhausted; a trailing '!' still matches.
	return pi >= len(pattern) || pattern[pi] == '!'
}

func matchDigit(p, d byte) bool {
	switch p {
	case 'N', 'n':
		return d >= '2' && d <= '9'
	case 'Z', 'z':
		return d >= '1' && d <= '9'
	case 'X', 'x':
		return d >= '0' && d <= '9'
	default:
		return p == d
	}
}

// matchClass matches one dialed character against the contents of a
// bracket class, honoring single-character ranges like 2-9.
func matchClass(class string, d byte) bool {
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			if d >= class[i] && d <= class[i+2] {
				return true
			}
			i += 2
			continue
		}
		if class[i] == d {
			return true
		}
	}
	return false
}
