package server

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/velotel/dialmap/pkg/config"
	"github.com/velotel/dialmap/pkg/dialplan"
)

func TestDialplanAutoReload_PicksUpNewFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.LoadIfExists("")
	if err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	cfg.Dialplan.Dir = dir
	cfg.Dialplan.AutoReload.Enabled = true
	cfg.Dialplan.AutoReload.DebounceMs = 20

	reg := dialplan.NewRegistry()
	if _, err := reg.ReloadFromDir(dir); err != nil {
		t.Fatalf("ReloadFromDir: %v", err)
	}

	mu := &sync.Mutex{}
	closer, err := installDialplanAutoReload(cfg, reg, mu)
	if err != nil {
		t.Fatalf("installDialplanAutoReload: %v", err)
	}
	if closer == nil {
		t.Fatalf("expected watcher closer")
	}
	defer func() { _ = closer.Close() }()

	// #nosec G306 -- test fixture.
	if err := os.WriteFile(filepath.Join(dir, "extensions.conf"), []byte("[local]\nexten => 100,1,NoOp()\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := reg.Find("local"); ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("context not loaded after watcher event")
}

func TestDialplanAutoReload_DisabledIsNoop(t *testing.T) {
	cfg, err := config.LoadIfExists("")
	if err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	cfg.Dialplan.AutoReload.Enabled = false

	closer, err := installDialplanAutoReload(cfg, dialplan.NewRegistry(), &sync.Mutex{})
	if err != nil {
		t.Fatalf("installDialplanAutoReload: %v", err)
	}
	if closer != nil {
		t.Fatalf("expected nil closer when disabled")
	}
}
