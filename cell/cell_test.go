package cell

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCell_GetAfterNew(t *testing.T) {
	c := New(42)
	if got := c.Get(); got != 42 {
		t.Fatalf("expected initial value 42, got %d", got)
	}
}

func TestCell_SetNotifiesEachObserverOncePerWrite(t *testing.T) {
	c := New("a")
	var first, second []string

	c.Subscribe(NewObserver(func(v string) {
		first = append(first, v)
	}))
	c.Subscribe(NewObserver(func(v string) {
		second = append(second, v)
	}))

	c.Set("b")
	c.Set("c")

	if got := c.Get(); got != "c" {
		t.Fatalf("expected value c after writes, got %q", got)
	}
	want := []string{"b", "c"}
	for name, got := range map[string][]string{"first": first, "second": second} {
		if len(got) != len(want) {
			t.Fatalf("expected %s observer to see %d values, got %d", name, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %s observer value %q at %d, got %q", name, want[i], i, got[i])
			}
		}
	}
}

func TestCell_NotifyOrderMatchesSubscriptionOrder(t *testing.T) {
	c := New(0)
	var order []string

	c.Subscribe(NewObserver(func(int) { order = append(order, "a") }))
	c.Subscribe(NewObserver(func(int) { order = append(order, "b") }))
	c.Subscribe(NewObserver(func(int) { order = append(order, "c") }))

	c.Set(1)
	if got := strings.Join(order, ""); got != "abc" {
		t.Fatalf("expected notification order abc, got %q", got)
	}
}

func TestCell_SubscribeSameObserverTwice(t *testing.T) {
	c := New(0)
	calls := 0
	obs := NewObserver(func(int) { calls++ })

	c.Subscribe(obs)
	c.Subscribe(obs)

	if got := c.Observers(); got != 1 {
		t.Fatalf("expected 1 registered observer, got %d", got)
	}
	c.Set(1)
	if calls != 1 {
		t.Fatalf("expected 1 call for a duplicate subscription, got %d", calls)
	}
}

func TestCell_UnsubscribeIsIdempotent(t *testing.T) {
	c := New(0)
	calls := 0
	unsub := c.SubscribeFunc(func(int) { calls++ })

	c.Set(1)
	unsub()
	c.Set(2)
	unsub()
	c.Set(3)

	if calls != 1 {
		t.Fatalf("expected no calls after unsubscribe, got %d total", calls)
	}
}

func TestCell_UnsubscribeUnknownObserver(t *testing.T) {
	c := New(0)
	c.SubscribeFunc(func(int) {})
	c.Unsubscribe(NewObserver(func(int) {}))
	if got := c.Observers(); got != 1 {
		t.Fatalf("expected registry untouched by unknown unsubscribe, got %d observers", got)
	}
}

func TestCell_SubscribeImmediate(t *testing.T) {
	c := New(7)
	var got []int

	c.SubscribeFunc(func(v int) {
		got = append(got, v)
	}, WithImmediate())

	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected one immediate call with 7, got %v", got)
	}

	c.Set(8)
	if len(got) != 2 || got[1] != 8 {
		t.Fatalf("expected write-triggered call with 8 after the immediate call, got %v", got)
	}
}

func TestCell_Update(t *testing.T) {
	c := New(1)
	calls := 0
	c.SubscribeFunc(func(int) { calls++ })

	c.Update(func(v int) int { return v + 1 })
	if got := c.Get(); got != 2 {
		t.Fatalf("expected updated value 2, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected update to notify once, got %d", calls)
	}
	c.Update(nil)
	if calls != 1 {
		t.Fatalf("expected nil update to be a no-op, got %d calls", calls)
	}
}

func TestCell_ObserverPanicDoesNotStopFanOut(t *testing.T) {
	var buf strings.Builder
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	c := New(0)
	var order []string
	c.SubscribeFunc(func(int) { order = append(order, "before") })
	c.SubscribeFunc(func(int) { panic("observer boom") })
	c.SubscribeFunc(func(int) { order = append(order, "after") })

	c.Set(1)

	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Fatalf("expected surviving observers before and after, got %v", order)
	}
	if !strings.Contains(buf.String(), "observer panicked during notify") {
		t.Fatalf("expected panic report in log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "observer boom") {
		t.Fatalf("expected recovered value in log, got %q", buf.String())
	}
}

func TestCell_UnsubscribeDuringNotifyUsesSnapshot(t *testing.T) {
	c := New(0)
	calls := 0
	obs := NewObserver(func(int) { calls++ })

	c.SubscribeFunc(func(int) {
		c.Unsubscribe(obs)
	})
	c.Subscribe(obs)

	c.Set(1)
	if calls != 1 {
		t.Fatalf("expected snapshot to deliver the in-flight event, got %d calls", calls)
	}
	c.Set(2)
	if calls != 1 {
		t.Fatalf("expected no delivery after mid-notify unsubscribe, got %d calls", calls)
	}
}

func TestCell_SubscribeDuringNotifyDoesNotReceiveInFlightEvent(t *testing.T) {
	c := New(0)
	lateCalls := 0
	c.SubscribeFunc(func(int) {
		c.SubscribeFunc(func(int) { lateCalls++ })
	})

	c.Set(1)
	if lateCalls != 0 {
		t.Fatalf("expected late subscriber to miss the in-flight event, got %d calls", lateCalls)
	}
	c.Set(2)
	if lateCalls != 1 {
		t.Fatalf("expected late subscriber to see the next event once, got %d calls", lateCalls)
	}
}

func TestCell_NilSafety(t *testing.T) {
	var c *Cell[int]
	if got := c.Get(); got != 0 {
		t.Fatalf("expected zero value from nil cell, got %d", got)
	}
	c.Set(1)
	c.Update(func(v int) int { return v })
	c.Unsubscribe(nil)
	unsub := c.Subscribe(nil)
	unsub()
	if got := c.Observers(); got != 0 {
		t.Fatalf("expected 0 observers on nil cell, got %d", got)
	}
}
