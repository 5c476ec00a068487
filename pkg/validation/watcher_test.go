package validation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fishter/lovelace-windrose-card/pkg/config"
)

type outcome struct {
	result *Result
	err    error
}

func TestWatcher_RevalidatesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.yaml")
	if err := os.WriteFile(path, []byte(validCard), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	svc, err := NewService(nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	w := NewWatcher(svc, path, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan outcome, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(r *Result, err error) { outcomes <- outcome{r, err} })
	}()

	first := waitOutcome(t, outcomes)
	if first.err != nil {
		t.Fatalf("initial validation failed: %v", first.err)
	}

	if err := os.WriteFile(path, []byte(invalidCard), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	second := waitOutcome(t, outcomes)
	if !errors.Is(second.err, config.ErrOutOfRange) {
		t.Errorf("expected out of range error after change, got %v", second.err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	svc, _ := NewService(nil)
	w := NewWatcher(svc, filepath.Join(t.TempDir(), "missing", "card.yaml"))

	err := w.Run(context.Background(), func(*Result, error) {
		t.Error("handler should not run")
	})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func waitOutcome(t *testing.T, outcomes <-chan outcome) outcome {
	t.Helper()
	select {
	case o := <-outcomes:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for validation")
		return outcome{}
	}
}
