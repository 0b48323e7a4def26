package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, w *Watcher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	select {
	case <-w.ready:
	case err := <-errc:
		cancel()
		t.Fatalf("Run() = %v", err)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("watcher did not start")
	}
	return cancel, errc
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	changed := make(chan struct{}, 10)
	w := New(Config{Path: path, Debounce: 50 * time.Millisecond}, func(context.Context) {
		calls.Add(1)
		changed <- struct{}{}
	}, nil)

	cancel, errc := startWatcher(t, w)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('b' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("OnChange not called")
	}
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("OnChange calls = %d, want 1", got)
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	var calls atomic.Int32
	w := New(Config{Path: path, Debounce: 10 * time.Millisecond}, func(context.Context) {
		calls.Add(1)
	}, nil)

	cancel, _ := startWatcher(t, w)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("OnChange calls = %d, want 0", got)
	}
}

func TestWatcher_SeesReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 1)
	w := New(Config{Path: path, Debounce: 10 * time.Millisecond}, func(context.Context) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)

	cancel, _ := startWatcher(t, w)
	defer cancel()

	tmp := filepath.Join(dir, "config.toml.tmp")
	if err := os.WriteFile(tmp, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("OnChange not called after rename")
	}
}

func TestWatcher_RunAgain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	changed := make(chan struct{}, 1)
	w := New(Config{Path: path, Debounce: 10 * time.Millisecond}, func(context.Context) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)

	cancel, errc := startWatcher(t, w)
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("first Run() = %v", err)
	}

	cancel, errc = startWatcher(t, w)
	defer cancel()

	// ready is already closed, so keep writing until the new watch sees one.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for seen := false; !seen; {
		if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-changed:
			seen = true
		case <-tick.C:
		case <-deadline:
			t.Fatal("OnChange not called after second Run")
		}
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("second Run() = %v", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(Config{Path: filepath.Join(t.TempDir(), "missing", "config.toml")}, func(context.Context) {}, nil)

	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New(Config{Path: "/etc/ubean/config.toml"}, func(context.Context) {}, nil)

	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounce)
	}
	if w.dir != "/etc/ubean" || w.name != "config.toml" {
		t.Errorf("dir, name = %q, %q", w.dir, w.name)
	}
}
