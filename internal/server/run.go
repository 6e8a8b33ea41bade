// Package server hosts the dialmap HTTP surface: digit map generation
// per context, context listing, and dialplan reload via SIGHUP or
// filesystem watch.
package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/velotel/dialmap/pkg/config"
	"github.com/velotel/dialmap/pkg/dialplan"
)

func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	accessLogger, accessClose, err := openAccessLogger(cfg)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	pidCleanup, err := writePIDFile(cfg)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	reg := dialplan.NewRegistry()
	loadRes, err := reg.ReloadFromDir(cfg.Dialplan.Dir)
	if err != nil {
		return fmt.Errorf("load dialplan dir %q: %w", cfg.Dialplan.Dir, err)
	}
	logSkippedFiles(cfg.Dialplan.Dir, loadRes.SkippedFiles)
	log.Printf("dialplan loaded: dir=%q contexts=%d", cfg.Dialplan.Dir, len(loadRes.Contexts))

	reloadMu := &sync.Mutex{}
	installReloadSignalHandler(cfg, reg, reloadMu)
	autoReloadClose, err := installDialplanAutoReload(cfg, reg, reloadMu)
	if err != nil {
		return fmt.Errorf("init dialplan auto reload: %w", err)
	}
	if autoReloadClose != nil {
		defer func() { _ = autoReloadClose.Close() }()
	}

	engine := NewRouter(cfg, reg, accessLogger)
	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
	}
	log.Printf("dialmapd listening on %s", cfg.Server.Listen)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func openAccessLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	if cfg == nil || !cfg.Logging.AccessLog {
		return nil, nil, nil
	}
	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", log.LstdFlags), nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags), f, nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func writePIDFile(cfg *config.Config) (io.Closer, error) {
	if cfg == nil {
		return nil, nil
	}
	path := strings.TrimSpace(cfg.Server.PidFile)
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	pid := strconv.Itoa(os.Getpid())
	// #nosec G306 -- pid file must be readable by service tooling.
	if err := os.WriteFile(path, []byte(pid+"\n"), 0o644); err != nil {
		return nil, err
	}
	return closerFunc(func() error {
		return os.Remove(path)
	}), nil
}

// installReloadSignalHandler reloads the dialplan directory on SIGHUP,
// matching the daemon convention the -s reload flag relies on.
func installReloadSignalHandler(cfg *config.Config, reg *dialplan.Registry, mu *sync.Mutex) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for range ch {
			mu.Lock()
			res, err := reg.ReloadFromDir(cfg.Dialplan.Dir)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (SIGHUP): %v", err)
				continue
			}
			logSkippedFiles(cfg.Dialplan.Dir, res.SkippedFiles)
			log.Printf("reload ok (SIGHUP): dir=%q contexts=%d", cfg.Dialplan.Dir, len(res.Contexts))
		}
	}()
}

func logSkippedFiles(dir string, skipped map[string]string) {
	for path, reason := range skipped {
		log.Printf("dialplan file skipped: dir=%q file=%q reason=%q", dir, path, reason)
	}
}
