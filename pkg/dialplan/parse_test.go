package dialplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_Basic(t *testing.T) {
	contexts, err := ParseFile("extensions.conf", `
[general]
static=yes

[local]
exten => _NXXXXXX,1,Dial(DAHDI/1/${EXTEN})
exten => _NXXXXXX,n,Hangup()
exten => 0,1,Dial(DAHDI/2)
include => longdistance||1
ignorepat => 9

[longdistance]
exten => _NXXNXXXXXX,1,Dial(DAHDI/g0/${EXTEN})
`)
	require.NoError(t, err)
	require.Len(t, contexts, 2)

	local := contexts[0]
	assert.Equal(t, "local", local.Name())
	require.Len(t, local.extensions, 3)
	assert.Equal(t, Extension{Name: "_NXXXXXX", Priority: 1, App: "Dial(DAHDI/1/${EXTEN})"}, local.extensions[0])
	assert.Equal(t, 2, local.extensions[1].Priority)
	assert.Equal(t, []string{"longdistance||1"}, local.includes)
	assert.Equal(t, []string{"9"}, local.ignorepats)

	assert.Equal(t, "longdistance", contexts[1].Name())
}

func TestParseFile_SameDirective(t *testing.T) {
	contexts, err := ParseFile("t.conf", `
[ivr]
exten => 100,1,Answer()
same => n,Playback(welcome)
same => n,Hangup()
`)
	require.NoError(t, err)
	require.Len(t, contexts, 1)
	exts := contexts[0].extensions
	require.Len(t, exts, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{exts[0].Priority, exts[1].Priority, exts[2].Priority})
	assert.Equal(t, "100", exts[2].Name)
}

func TestParseFile_CommentsAndLabels(t *testing.T) {
	contexts, err := ParseFile("t.conf", `
; full line comment
[main] ; trailing comment
exten => 1,1,NoOp() ; another
exten => 1,n(loop),Goto(main,1,1)
`)
	require.NoError(t, err)
	require.Len(t, contexts, 1)
	require.Len(t, contexts[0].extensions, 2)
	assert.Equal(t, 2, contexts[0].extensions[1].Priority)
}

func TestParseFile_Errors(t *testing.T) {
	cases := []struct {
		name string
		conf string
	}{
		{"unterminated section", "[main\nexten => 1,1,NoOp()"},
		{"malformed exten", "[main]\nexten => justaname"},
		{"bad priority", "[main]\nexten => 1,first,NoOp()"},
		{"empty include", "[main]\ninclude => "},
		{"same without exten", "[main]\nsame => n,NoOp()"},
		{"unknown directive", "[main]\nfrobnicate => 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFile("t.conf", tc.conf)
			assert.Error(t, err)
		})
	}
}

func TestParseIncludeSpec(t *testing.T) {
	cases := []struct {
		raw    string
		name   string
		prefix string
	}{
		{"longdistance", "longdistance", ""},
		{"longdistance||1", "longdistance", "1"},
		{"intl|i|011", "intl", "011"},
		{"daytime,9:00-17:00,mon-fri,*,*", "daytime", ""},
		{"ctx|arg", "ctx", ""},
		{" spaced || 42 ", "spaced", "42"},
	}
	for _, tc := range cases {
		name, prefix := ParseIncludeSpec(tc.raw)
		assert.Equal(t, tc.name, name, "raw=%q", tc.raw)
		assert.Equal(t, tc.prefix, prefix, "raw=%q", tc.raw)
	}
}
