package input

import (
	"sync"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestQueueDispatchesInOrder(t *testing.T) {
	q := NewQueue()
	var got []Event
	q.Subscribe(func(evt Event) { got = append(got, evt) })

	q.Push(Event{Type: KeyDown, Key: "W"})
	q.Push(Event{Type: MouseDown, Button: MouseLeft})
	q.Push(Event{Type: KeyUp, Key: "w"})

	if len(got) != 0 {
		t.Fatal("events must not be delivered before Dispatch")
	}
	if n := q.Dispatch(); n != 3 {
		t.Fatalf("expected 3 events, got %d", n)
	}
	want := []Event{
		{Type: KeyDown, Key: "w"},
		{Type: MouseDown, Button: MouseLeft},
		{Type: KeyUp, Key: "w"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := q.Dispatch(); n != 0 {
		t.Fatalf("second dispatch delivered %d events", n)
	}
}

func TestQueueUnsubscribe(t *testing.T) {
	q := NewQueue()
	a, b := 0, 0
	subA := q.Subscribe(func(Event) { a++ })
	q.Subscribe(func(Event) { b++ })

	q.Push(Event{Type: KeyDown, Key: "e"})
	q.Dispatch()
	subA.Unsubscribe()
	subA.Unsubscribe()
	q.Push(Event{Type: KeyDown, Key: "e"})
	q.Dispatch()

	if a != 1 || b != 2 {
		t.Fatalf("a=%d b=%d", a, b)
	}
	if q.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", q.Subscribers())
	}
}

func TestQueueUnsubscribeDuringDispatch(t *testing.T) {
	q := NewQueue()
	calls := 0
	var sub *Subscription
	sub = q.Subscribe(func(Event) {
		calls++
		sub.Unsubscribe()
	})
	q.Push(Event{Type: KeyDown, Key: "a"})
	q.Push(Event{Type: KeyDown, Key: "b"})
	q.Dispatch()
	if calls != 1 {
		t.Fatalf("expected handler to stop after unsubscribing, got %d calls", calls)
	}
}

func TestQueuePushIsGoroutineSafe(t *testing.T) {
	q := NewQueue()
	count := 0
	q.Subscribe(func(Event) { count++ })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(Event{Type: KeyDown, Key: "w"})
			}
		}()
	}
	wg.Wait()
	q.Dispatch()
	if count != 800 {
		t.Fatalf("expected 800 events, got %d", count)
	}
}

func TestEbitenPollerResyncReleasesStaleKeys(t *testing.T) {
	q := NewQueue()
	p := NewEbitenPoller(q)
	p.down(ebiten.KeyW)
	p.down(ebiten.KeyA)
	q.Dispatch()

	var got []Event
	q.Subscribe(func(evt Event) { got = append(got, evt) })

	// W was let go while nothing polled; A is still held.
	n := p.Resync(func(k ebiten.Key) bool { return k == ebiten.KeyA })
	if n != 1 {
		t.Fatalf("released %d keys, want 1", n)
	}
	q.Dispatch()
	if len(got) != 1 || got[0] != (Event{Type: KeyUp, Key: "w"}) {
		t.Fatalf("events = %+v, want a single KeyUp w", got)
	}

	// once A is released too, nothing is left
	if n := p.Resync(func(ebiten.Key) bool { return false }); n != 1 {
		t.Fatalf("second resync released %d keys, want 1 (a)", n)
	}
	if n := p.Resync(func(ebiten.Key) bool { return false }); n != 0 {
		t.Fatalf("third resync released %d keys, want 0", n)
	}
}

func TestEbitenPollerResyncNilSafe(t *testing.T) {
	var p *EbitenPoller
	if n := p.Resync(func(ebiten.Key) bool { return false }); n != 0 {
		t.Fatalf("nil poller released %d keys", n)
	}
	if n := NewEbitenPoller(NewQueue()).Resync(nil); n != 0 {
		t.Fatalf("nil predicate released %d keys", n)
	}
}
