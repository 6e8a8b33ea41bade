package digitmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/velotel/dialmap/pkg/dialplan"
)

func loadRegistry(t *testing.T, conf string) *dialplan.Registry {
	t.Helper()
	reg := dialplan.NewRegistry()
	if err := reg.LoadString(conf); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return reg
}

func TestGenerate_SingleContext(t *testing.T) {
	reg := loadRegistry(t, `
[local]
exten => _NXXXXXX,1,Dial(DAHDI/1/${EXTEN})
exten => 0,1,Dial(DAHDI/2)
exten => _X11,1,Goto(services,${EXTEN},1)
`)
	out, warnings, err := Generate(reg, "local", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if out != "[2-9]xxxxxx|0|x11" {
		t.Fatalf("digit map = %q", out)
	}
}

func TestGenerate_SkipsMetaAndNonPriorityOne(t *testing.T) {
	reg := loadRegistry(t, `
[local]
exten => s,1,Answer()
exten => i,1,Playback(invalid)
exten => t,1,Hangup()
exten => a,1,VoiceMailMain()
exten => 100,1,Dial(SIP/100)
exten => 100,n,Hangup()
exten => 200,hint,SIP/200
`)
	out, _, err := Generate(reg, "local", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "100" {
		t.Fatalf("digit map = %q", out)
	}
}

func TestGenerate_IncludeWithPrefix(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => _1XXX,1,Dial(SIP/${EXTEN})
include => B||9

[B]
exten => _NXX,1,Dial(SIP/${EXTEN})
`)
	out, warnings, err := Generate(reg, "A", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	// Own extensions first, then each include subtree with its prefix.
	if out != "1xxx|9[2-9]xx" {
		t.Fatalf("digit map = %q", out)
	}
}

func TestGenerate_IgnorePatternNoPrefix(t *testing.T) {
	reg := loadRegistry(t, `
[outbound]
ignorepat => 9
exten => _9NXXXXXX,1,Dial(DAHDI/g0/${EXTEN:1})
exten => _411,1,Dial(DAHDI/g0/411)
`)
	out, _, err := Generate(reg, "outbound", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The marker follows the first dialed digit only where the ignore
	// pattern covers it.
	if out != "9,[2-9]xxxxxx|411" {
		t.Fatalf("digit map = %q", out)
	}
}

func TestGenerate_IgnorePatternAppliesToIncludePrefix(t *testing.T) {
	reg := loadRegistry(t, `
[A]
ignorepat => 9
include => B||9

[B]
exten => _NXX,1,Dial(SIP/${EXTEN})
`)
	out, _, err := Generate(reg, "A", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The prefix digit is the first one keyed, so the second-dial-tone
	// marker lands right after it.
	if out != "9,[2-9]xx" {
		t.Fatalf("digit map = %q", out)
	}
}

func TestGenerate_SelfIncludeTerminates(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => 100,1,Dial(SIP/100)
include => A
`)
	out, warnings, err := Generate(reg, "A", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "100" {
		t.Fatalf("digit map = %q", out)
	}
	if !hasWarning(warnings, WarnCircularInclude) {
		t.Fatalf("expected circular include warning, got %v", warnings)
	}
}

func TestGenerate_CircularChainEmitsOnce(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => 1,1,Dial(SIP/1)
include => B

[B]
exten => 2,1,Dial(SIP/2)
include => A
`)
	out, warnings, err := Generate(reg, "A", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "1|2" {
		t.Fatalf("digit map = %q", out)
	}
	if !hasWarning(warnings, WarnCircularInclude) {
		t.Fatalf("expected circular include warning, got %v", warnings)
	}
	if strings.Count(out, "1") != 1 {
		t.Fatalf("context A emitted more than once: %q", out)
	}
}

func TestGenerate_DanglingIncludeContinues(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => 1,1,Dial(SIP/1)
include => nosuch
include => B

[B]
exten => 2,1,Dial(SIP/2)
`)
	out, warnings, err := Generate(reg, "A", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The sibling include after the dangling one still contributes.
	if out != "1|2" {
		t.Fatalf("digit map = %q", out)
	}
	if !hasWarning(warnings, WarnContextNotFound) {
		t.Fatalf("expected context-not-found warning, got %v", warnings)
	}
}

func TestGenerate_RootNotFound(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => 1,1,Dial(SIP/1)
`)
	out, _, err := Generate(reg, "nosuch", Options{})
	if !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("err = %v, want ErrContextNotFound", err)
	}
	if out != "" {
		t.Fatalf("digit map = %q, want empty", out)
	}
}

func TestGenerate_BufferExhausted(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => _NXXNXXXXXX,1,Dial(SIP/${EXTEN})
exten => _1NXXNXXXXXX,1,Dial(SIP/${EXTEN})
`)
	out, _, err := Generate(reg, "A", Options{MaxBytes: 16})
	if !errors.Is(err, ErrBufferExhausted) {
		t.Fatalf("err = %v, want ErrBufferExhausted", err)
	}
	if out != "" {
		t.Fatalf("digit map = %q, want empty on exhaustion", out)
	}
}

func TestGenerate_OutputNeverExceedsCapacity(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => _NXXXXXX,1,Dial(SIP/${EXTEN})
exten => _1NXXNXXXXXX,1,Dial(SIP/${EXTEN})
exten => _011X.,1,Dial(SIP/${EXTEN})
`)
	for capacity := 4; capacity <= 64; capacity++ {
		out, _, err := Generate(reg, "A", Options{MaxBytes: capacity})
		if err != nil {
			if !errors.Is(err, ErrBufferExhausted) {
				t.Fatalf("capacity %d: err = %v", capacity, err)
			}
			continue
		}
		if len(out) >= capacity {
			t.Fatalf("capacity %d: output length %d", capacity, len(out))
		}
	}
}

func TestGenerate_EmptyContextIsValid(t *testing.T) {
	reg := loadRegistry(t, `
[empty]
`)
	out, warnings, err := Generate(reg, "empty", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "" || len(warnings) != 0 {
		t.Fatalf("out=%q warnings=%v, want empty success", out, warnings)
	}
}

func TestGenerate_MaxDepthSkipsBranch(t *testing.T) {
	reg := loadRegistry(t, `
[A]
exten => 1,1,Dial(SIP/1)
include => B

[B]
exten => 2,1,Dial(SIP/2)
include => C

[C]
exten => 3,1,Dial(SIP/3)
`)
	out, warnings, err := Generate(reg, "A", Options{MaxIncludeDepth: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "1|2" {
		t.Fatalf("digit map = %q", out)
	}
	if !hasWarning(warnings, WarnMaxDepthExceeded) {
		t.Fatalf("expected max depth warning, got %v", warnings)
	}
}

func hasWarning(warnings []Warning, kind WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
