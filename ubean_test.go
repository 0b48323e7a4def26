package ubean

import (
	"context"
	"errors"
	"testing"
)

func TestValidateModuleVersions(t *testing.T) {
	if err := ValidateModuleVersions(); err != nil {
		t.Errorf("ValidateModuleVersions() = %v", err)
	}
}

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version    string
		minVersion string
		want       bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.1.0", "1.0.0", true},
		{"1.0.1", "1.0.0", true},
		{"2.0.0", "1.9.9", true},
		{"1.0.0", "1.0.1", false},
		{"1.0.0", "1.1.0", false},
		{"1.9.9", "2.0.0", false},
	}

	for _, tt := range tests {
		if got := isVersionCompatible(tt.version, tt.minVersion); got != tt.want {
			t.Errorf("isVersionCompatible(%q, %q) = %v, want %v", tt.version, tt.minVersion, got, tt.want)
		}
	}
}

func TestFacade(t *testing.T) {
	var seen []State
	boom := errors.New("boom")

	m := New(HookFuncs{
		Resume: func(context.Context) error { return boom },
	}, WithName("facade"), WithListener(ListenerFunc(func(_, cur State) {
		seen = append(seen, cur)
	})))

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := m.Resume(ctx); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Resume() from Started = %v, want ErrIllegalState", err)
	}
	if err := m.Suspend(ctx); err != nil {
		t.Fatalf("Suspend() = %v", err)
	}
	if err := m.Resume(ctx); !errors.Is(err, ErrHookFailed) || !errors.Is(err, boom) {
		t.Errorf("Resume() = %v, want hook failure", err)
	}
	if m.State() != StateSick {
		t.Errorf("State() = %v, want Sick", m.State())
	}

	want := []State{
		StateInitializing, StateInitialized, StateStarting, StateStarted,
		StateSuspending, StateSuspended, StateResuming, StateSick,
	}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}
