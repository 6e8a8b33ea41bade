package digitmap

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal generation finding.
type WarningKind string

const (
	// WarnCircularInclude marks an include whose target is already on
	// the active include stack; the branch is skipped.
	WarnCircularInclude WarningKind = "circular_include"
	// WarnMaxDepthExceeded marks an include skipped because the stack
	// reached the engine depth bound.
	WarnMaxDepthExceeded WarningKind = "max_depth_exceeded"
	// WarnContextNotFound marks a dangling include target; the branch
	// is skipped and siblings continue.
	WarnContextNotFound WarningKind = "context_not_found"
	// WarnMalformedPattern marks a pattern the device grammar cannot
	// represent losslessly; output is still emitted best effort.
	WarnMalformedPattern WarningKind = "malformed_pattern"
)

// Warning is one non-fatal finding, tied to the context (and for pattern
// findings, the extension) it arose from.
type Warning struct {
	Kind    WarningKind
	Context string
	Pattern string
	Detail  string
}

func (w Warning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: context %q", w.Kind, w.Context)
	if w.Pattern != "" {
		fmt.Fprintf(&b, " pattern %q", w.Pattern)
	}
	if w.Detail != "" {
		b.WriteString(": ")
		b.WriteString(w.Detail)
	}
	return b.String()
}
