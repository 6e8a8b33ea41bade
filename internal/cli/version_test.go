package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmdOutput(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "dialmap ") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"generate", "validate", "contexts", "tui", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}
}
