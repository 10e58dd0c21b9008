package brain

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	name      string
	available bool
	err       error
	content   string
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Generate(_ context.Context, _ Request) (Response, error) {
	f.calls++
	if f.err != nil {
		return Response{}, f.err
	}
	return Response{Content: f.content}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAnalyzeFallsBackInOrder(t *testing.T) {
	failing := &fakeProvider{name: "a", available: true, err: errors.New("boom")}
	noKey := &fakeProvider{name: "b", available: false}
	healthy := &fakeProvider{name: "c", available: true, content: "answer"}

	orch := NewOrchestrator([]Provider{failing, noKey, healthy}, NewCooldowns(), WithPause(0))

	got, err := orch.Analyze(context.Background(), Request{UserPrompt: "q"}, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got != "answer" {
		t.Errorf("expected content from the healthy provider, got %q", got)
	}
	if failing.calls != 1 {
		t.Errorf("expected the failing provider to be tried once, got %d", failing.calls)
	}
	if noKey.calls != 0 {
		t.Errorf("expected the keyless provider to be skipped, got %d calls", noKey.calls)
	}
}

func TestAnalyzeTripsCooldownOnFailure(t *testing.T) {
	start := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	failing := &fakeProvider{name: "a", available: true, err: errors.New("boom")}
	healthy := &fakeProvider{name: "b", available: true, content: "answer"}

	cooldowns := NewCooldowns()
	orch := NewOrchestrator([]Provider{failing, healthy}, cooldowns,
		WithPause(0), WithClock(fixedClock(start)))

	if _, err := orch.Analyze(context.Background(), Request{}, false); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := orch.Analyze(context.Background(), Request{}, false); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Benched after the first failure: the second call never touches it.
	if failing.calls != 1 {
		t.Errorf("expected failing provider tried exactly once, got %d", failing.calls)
	}
	if !cooldowns.Cooling("a", start.Add(299*time.Second)) {
		t.Error("expected provider to still be cooling just before the window ends")
	}
	if cooldowns.Cooling("a", start.Add(301*time.Second)) {
		t.Error("expected cooldown to expire after 300s")
	}
}

func TestCooldownWindowOnlyExtends(t *testing.T) {
	c := NewCooldowns()
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	c.Trip("a", base.Add(10*time.Minute))
	c.Trip("a", base.Add(1*time.Minute)) // earlier deadline, must not shrink the window

	if !c.Cooling("a", base.Add(5*time.Minute)) {
		t.Error("expected the longer window to survive a shorter Trip")
	}
}

func TestAnalyzeExhausted(t *testing.T) {
	failing := &fakeProvider{name: "a", available: true, err: errors.New("boom")}
	noKey := &fakeProvider{name: "b", available: false}

	orch := NewOrchestrator([]Provider{failing, noKey}, NewCooldowns(), WithPause(0))

	_, err := orch.Analyze(context.Background(), Request{}, false)
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestAnalyzeEmptyChain(t *testing.T) {
	orch := NewOrchestrator(nil, NewCooldowns(), WithPause(0))
	_, err := orch.Analyze(context.Background(), Request{}, true)
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted on an empty chain, got %v", err)
	}
}

func TestAnalyzeLoadBalanceRotatesOffset(t *testing.T) {
	a := &fakeProvider{name: "a", available: true, content: "from-a"}
	b := &fakeProvider{name: "b", available: true, content: "from-b"}
	c := &fakeProvider{name: "c", available: true, content: "from-c"}

	// Unix()%3 == 1 → the chain starts at the second provider.
	clock := fixedClock(time.Unix(4, 0))
	orch := NewOrchestrator([]Provider{a, b, c}, NewCooldowns(), WithPause(0), WithClock(clock))

	got, err := orch.Analyze(context.Background(), Request{}, true)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got != "from-b" {
		t.Errorf("expected rotation to start at provider b, got %q", got)
	}

	// Without load balancing the fixed priority order wins.
	got, err = orch.Analyze(context.Background(), Request{}, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got != "from-a" {
		t.Errorf("expected priority order without load balancing, got %q", got)
	}
}

func TestStatusSnapshot(t *testing.T) {
	start := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	cooling := &fakeProvider{name: "a", available: true}
	active := &fakeProvider{name: "b", available: true}
	noKey := &fakeProvider{name: "c", available: false}

	cooldowns := NewCooldowns()
	cooldowns.Trip("a", start.Add(time.Minute))

	orch := NewOrchestrator([]Provider{cooling, active, noKey}, cooldowns,
		WithClock(fixedClock(start)))

	status := orch.Status()
	want := map[string]ProviderStatus{
		"a": StatusCooldown,
		"b": StatusActive,
		"c": StatusNoKey,
	}
	for name, expected := range want {
		if status[name] != expected {
			t.Errorf("provider %s: expected %s, got %s", name, expected, status[name])
		}
	}

	// Status must never mutate cooldown state.
	if cooldowns.Cooling("b", start) {
		t.Error("expected provider b untouched by Status")
	}
}

func TestAnalyzeContextCancelled(t *testing.T) {
	slow := &fakeProvider{name: "a", available: true, content: "late"}
	orch := NewOrchestrator([]Provider{slow}, NewCooldowns(), WithPause(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Analyze(ctx, Request{}, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if slow.calls != 0 {
		t.Errorf("expected no provider call after cancellation, got %d", slow.calls)
	}
}
