// Package digitmap flattens a dialplan context hierarchy into the digit
// map grammar understood by SIP end devices (ATAs, gateways, IP phones)
// for local dial-plan matching.
//
// Generation crawls a root context and every context it includes, in
// order: a context's own priority-1 extensions first, then each include's
// subtree, accumulating any dial prefix an include contributes. The
// result is a '|'-separated list of device patterns, hard-capped at the
// configured byte budget.
//
// Translation is best effort. Source constructs the device grammar cannot
// express (for example a bracket class mixing a bare digit and a range)
// are emitted literally and reported as warnings rather than failing the
// whole generation.
package digitmap

import (
	"errors"

	"github.com/velotel/dialmap/pkg/dialplan"
)

// DefaultMaxBytes caps the generated digit map. Common devices reject
// maps longer than 2048 bytes.
const DefaultMaxBytes = 2048

// ErrContextNotFound reports that the root context does not exist in the
// dialplan. A missing context behind a nested include is downgraded to a
// warning instead.
var ErrContextNotFound = errors.New("context not found")

// ErrBufferExhausted reports that the digit map would exceed its byte
// budget. A truncated map would silently drop dialable patterns, so this
// is always fatal to the generation.
var ErrBufferExhausted = errors.New("digit map buffer exhausted")

// Options tunes a generation pass. The zero value uses the device
// default byte budget and the dialplan engine's include depth bound.
type Options struct {
	MaxBytes        int
	MaxIncludeDepth int
}

func (o Options) withDefaults() Options {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxIncludeDepth <= 0 {
		o.MaxIncludeDepth = dialplan.MaxIncludeDepth
	}
	return o
}

// Generate produces the device digit map for root and every context it
// transitively includes. Warnings carry non-fatal findings (circular or
// too-deep includes, dangling nested includes, untranslatable patterns);
// they accompany both success and failure.
func Generate(reg *dialplan.Registry, root string, opts Options) (string, []Warning, error) {
	opts = opts.withDefaults()
	g := &generator{
		reg:      reg,
		acc:      newAccumulator(opts.MaxBytes),
		maxDepth: opts.MaxIncludeDepth,
	}
	n, err := g.generate("", root)
	if err != nil {
		return "", g.warnings, err
	}
	if n == 0 {
		return "", g.warnings, nil
	}
	// Drop the leading alternative separator.
	return string(g.acc.bytes()[1:]), g.warnings, nil
}
