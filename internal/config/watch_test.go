package config

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"
)

func TestWatchAlertRules_ReloadsOnRewrite(t *testing.T) {
	p := writeConfig(t, `server: {}
alerts:
  rules:
    - name: ph-critical
      condition: "health == critical"
      severity: critical
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []AlertsConfig
	go func() {
		err := WatchAlertRules(ctx, p, func(a AlertsConfig) {
			mu.Lock()
			got = append(got, a)
			mu.Unlock()
		})
		if err != nil {
			t.Errorf("WatchAlertRules: %v", err)
		}
	}()

	// Give the watcher a moment to arm before rewriting.
	time.Sleep(100 * time.Millisecond)

	rewritten := `server: {}
alerts:
  rules:
    - name: ph-critical
      condition: "health == critical"
      severity: critical
    - name: ec-high
      condition: "ec > 3.0"
      severity: warning
`
	if err := os.WriteFile(p, []byte(rewritten), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 {
		t.Fatal("no reload observed after config rewrite")
	}
	last := got[len(got)-1]
	if len(last.Rules) != 2 {
		t.Fatalf("reloaded rules: got %d, want 2", len(last.Rules))
	}
	if last.Rules[1].Name != "ec-high" {
		t.Errorf("reloaded rule: got %q, want ec-high", last.Rules[1].Name)
	}
}

func TestWatchAlertRules_IgnoresBrokenRewrite(t *testing.T) {
	p := writeConfig(t, `server: {}
alerts:
  rules:
    - name: ph-critical
      condition: "health == critical"
      severity: critical
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0
	go func() {
		_ = WatchAlertRules(ctx, p, func(AlertsConfig) {
			mu.Lock()
			reloads++
			mu.Unlock()
		})
	}()

	time.Sleep(100 * time.Millisecond)

	// A rule without a condition fails validation — the edit must be ignored.
	broken := `server: {}
alerts:
  rules:
    - name: nameless
`
	if err := os.WriteFile(p, []byte(broken), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if reloads != 0 {
		t.Errorf("broken rewrite triggered %d reloads, want 0", reloads)
	}
}

func TestWatchAlertRules_MissingFile(t *testing.T) {
	err := WatchAlertRules(context.Background(), "/nonexistent/config.yaml", func(AlertsConfig) {})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
