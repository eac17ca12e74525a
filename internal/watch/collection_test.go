package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type rec struct {
	ID   int
	Name string
}

func (r rec) RecordID() int { return r.ID }

// queueSource returns each result set in order, repeating the last one.
func queueSource(results ...[]rec) Source[rec] {
	i := 0
	return NewSource("test", func(ctx context.Context) ([]rec, error) {
		if i < len(results)-1 {
			defer func() { i++ }()
		}
		return results[i], nil
	})
}

func collect(t *testing.T, ch <-chan Change[rec], n int) []Change[rec] {
	t.Helper()
	out := make([]Change[rec], 0, n)
	for len(out) < n {
		select {
		case change := <-ch:
			out = append(out, change)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for change %d of %d", len(out)+1, n)
		}
	}
	return out
}

func TestNewPopulatesFromInitialFetch(t *testing.T) {
	a, b := rec{ID: 1, Name: "a"}, rec{ID: 2, Name: "b"}
	c, err := New(context.Background(), queueSource([]rec{a, b}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if diff := cmp.Diff([]rec{a, b}, c.Current()); diff != "" {
		t.Errorf("Current mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFailsWhenInitialFetchFails(t *testing.T) {
	boom := errors.New("boom")
	src := NewSource("test", func(ctx context.Context) ([]rec, error) {
		return nil, boom
	})

	if _, err := New(context.Background(), src); !errors.Is(err, boom) {
		t.Fatalf("want initial fetch error, got %v", err)
	}
}

func TestPollEmitsAddAndRemoveByID(t *testing.T) {
	a, b, cRec := rec{ID: 1, Name: "a"}, rec{ID: 2, Name: "b"}, rec{ID: 3, Name: "c"}
	coll, err := New(context.Background(), queueSource([]rec{a, b}, []rec{b, cRec}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, ch := coll.Subscribe()
	coll.poll(nil)

	changes := collect(t, ch, 2)
	if changes[0].Type != Removed || changes[0].Record.ID != 1 {
		t.Errorf("first change = %v %d, want removed id=1", changes[0].Type, changes[0].Record.ID)
	}
	if changes[1].Type != Added || changes[1].Record.ID != 3 {
		t.Errorf("second change = %v %d, want added id=3", changes[1].Type, changes[1].Record.ID)
	}

	select {
	case extra := <-ch:
		t.Errorf("unexpected extra change: %+v", extra)
	default:
	}

	if diff := cmp.Diff([]rec{b, cRec}, coll.Current()); diff != "" {
		t.Errorf("Current mismatch (-want +got):\n%s", diff)
	}
}

func TestPollIgnoresFieldChangesOnPersistingID(t *testing.T) {
	coll, err := New(context.Background(), queueSource(
		[]rec{{ID: 1, Name: "before"}},
		[]rec{{ID: 1, Name: "after"}},
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, ch := coll.Subscribe()
	coll.poll(nil)

	select {
	case change := <-ch:
		t.Errorf("unexpected change for persisting id: %+v", change)
	default:
	}

	// Contents are still replaced wholesale.
	if got := coll.Current()[0].Name; got != "after" {
		t.Errorf("Current()[0].Name = %q, want %q", got, "after")
	}
}

func TestFailedPollLeavesContentsAndEmitsOneError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	src := NewSource("test", func(ctx context.Context) ([]rec, error) {
		calls++
		if calls == 1 {
			return []rec{{ID: 1}, {ID: 2}}, nil
		}
		return nil, boom
	})

	coll, err := New(context.Background(), src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := coll.Current()

	_, ch := coll.Subscribe()
	coll.poll(nil)

	changes := collect(t, ch, 1)
	if changes[0].Type != PollFailed || !errors.Is(changes[0].Err, boom) {
		t.Errorf("change = %+v, want PollFailed wrapping boom", changes[0])
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected extra change: %+v", extra)
	default:
	}

	if diff := cmp.Diff(before, coll.Current()); diff != "" {
		t.Errorf("contents changed after failed poll (-want +got):\n%s", diff)
	}
}

func TestWatchIsIdempotent(t *testing.T) {
	var fetches atomic.Int64
	src := NewSource("test", func(ctx context.Context) ([]rec, error) {
		fetches.Add(1)
		return []rec{{ID: 1}}, nil
	})

	coll, err := New(context.Background(), src, WithInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer coll.Unwatch()

	coll.Watch()
	first := coll.stop
	coll.Watch()
	if coll.stop != first {
		t.Fatal("second Watch started a new poller")
	}

	time.Sleep(275 * time.Millisecond)
	coll.Unwatch()

	// Initial fetch plus roughly one poll per interval; a doubled poller
	// would blow well past this.
	polls := fetches.Load() - 1
	if polls < 1 || polls > 7 {
		t.Errorf("polls = %d, want between 1 and 7 for a single poller", polls)
	}
}

func TestSlowPollSkipsElapsedTicks(t *testing.T) {
	started := make(chan struct{}, 8)
	release := make(chan struct{})
	var calls atomic.Int64
	src := NewSource("test", func(ctx context.Context) ([]rec, error) {
		if calls.Add(1) == 1 {
			return []rec{{ID: 1}}, nil
		}
		started <- struct{}{}
		<-release
		return []rec{{ID: 1}}, nil
	})

	coll, err := New(context.Background(), src, WithInterval(60*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer coll.Unwatch()

	coll.Watch()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never started")
	}

	// Hold the poll across several intervals. Only one poll runs at a time,
	// so nothing else may start while it blocks.
	select {
	case <-started:
		t.Fatal("second poll started while one was in flight")
	case <-time.After(200 * time.Millisecond):
	}
	release <- struct{}{}

	// The ticks that elapsed during the slow poll are skipped: the next poll
	// waits for a fresh tick instead of firing back to back.
	select {
	case <-started:
		t.Fatal("poll started immediately from a queued tick")
	case <-time.After(20 * time.Millisecond):
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("polling never resumed on a fresh tick")
	}
	close(release)
}

func TestUnwatchStopsPollingAndIsSafeWhenNeverStarted(t *testing.T) {
	var fetches atomic.Int64
	src := NewSource("test", func(ctx context.Context) ([]rec, error) {
		fetches.Add(1)
		return []rec{{ID: 1}}, nil
	})

	coll, err := New(context.Background(), src, WithInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Never watched: Unwatch is a no-op.
	coll.Unwatch()

	coll.Watch()
	time.Sleep(70 * time.Millisecond)
	coll.Unwatch()

	after := fetches.Load()
	time.Sleep(100 * time.Millisecond)
	if got := fetches.Load(); got != after {
		t.Errorf("fetches continued after Unwatch: %d -> %d", after, got)
	}
}

func TestUnwatchDiscardsInFlightResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	src := NewSource("test", func(ctx context.Context) ([]rec, error) {
		calls++
		if calls == 1 {
			return []rec{{ID: 1}}, nil
		}
		close(entered)
		<-release
		return []rec{{ID: 99}}, nil
	})

	coll, err := New(context.Background(), src, WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, ch := coll.Subscribe()

	coll.Watch()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never started")
	}

	coll.Unwatch()
	close(release)
	time.Sleep(50 * time.Millisecond)

	if diff := cmp.Diff([]rec{{ID: 1}}, coll.Current()); diff != "" {
		t.Errorf("late result was applied (-want +got):\n%s", diff)
	}
	select {
	case change := <-ch:
		t.Errorf("unexpected change from discarded poll: %+v", change)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	coll, err := New(context.Background(), queueSource([]rec{{ID: 1}}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, ch := coll.Subscribe()
	coll.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Error("channel still open after Unsubscribe")
	}

	// Unknown id is ignored.
	coll.Unsubscribe("missing")
}

func TestCurrentReturnsCopy(t *testing.T) {
	coll, err := New(context.Background(), queueSource([]rec{{ID: 1, Name: "a"}}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	items := coll.Current()
	items[0].Name = "mutated"

	if got := coll.Current()[0].Name; got != "a" {
		t.Errorf("internal state mutated through Current: %q", got)
	}
}
