package broadcast

import (
	"sync"
	"tapdash/internal/events"
)

// Broadcaster fans render snapshots out from the bus to every
// subscriber: SSE streams, the websocket hub, and the session recorder.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan events.RenderState]bool
}

func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan events.RenderState]bool),
	}
	go func() {
		for rs := range bus.RenderStates {
			b.Broadcast(rs)
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan events.RenderState {
	ch := make(chan events.RenderState, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan events.RenderState) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

func (b *Broadcaster) Broadcast(rs events.RenderState) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- rs:
		default:
			// skip clients with full data channels
		}
	}
}
