package input

import (
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenPoller turns ebiten's per-tick key and mouse state into edge events.
// Poll must be called once per ebiten Update, before the queue is dispatched.
type EbitenPoller struct {
	queue *Queue
	keys  []ebiten.Key
	held  map[ebiten.Key]bool
}

// NewEbitenPoller creates a poller pushing into q.
func NewEbitenPoller(q *Queue) *EbitenPoller {
	return &EbitenPoller{queue: q, held: make(map[ebiten.Key]bool)}
}

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Poll pushes key down/up and mouse down edges observed this tick.
func (p *EbitenPoller) Poll() {
	if p == nil || p.queue == nil {
		return
	}
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.down(k)
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.up(k)
	}
	for i, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			p.queue.Push(Event{Type: MouseDown, Button: i})
		}
	}
}

// Resync releases every key the poller saw go down that pressed no longer
// reports, returning how many KeyUp events it pushed. Call it when polling
// resumes after ticks were skipped, since release edges are only visible on
// the tick they happen.
func (p *EbitenPoller) Resync(pressed func(ebiten.Key) bool) int {
	if p == nil || p.queue == nil || pressed == nil {
		return 0
	}
	stale := p.keys[:0]
	for k := range p.held {
		if !pressed(k) {
			stale = append(stale, k)
		}
	}
	slices.Sort(stale)
	for _, k := range stale {
		p.up(k)
	}
	p.keys = stale
	return len(stale)
}

func (p *EbitenPoller) down(k ebiten.Key) {
	p.held[k] = true
	p.queue.Push(Event{Type: KeyDown, Key: KeyName(k)})
}

func (p *EbitenPoller) up(k ebiten.Key) {
	delete(p.held, k)
	p.queue.Push(Event{Type: KeyUp, Key: KeyName(k)})
}

// KeyName returns the identifier used in events for k, e.g. "w".
func KeyName(k ebiten.Key) string {
	return strings.ToLower(k.String())
}
