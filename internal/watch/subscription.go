package watch

import "sync"

// Subscription is one watcher's ordered snapshot feed. Delivery runs on a
// dedicated goroutine; if the consumer lags, pending snapshots coalesce to
// the newest one, which is safe because every snapshot is a full replacement.
type Subscription struct {
	hub   *Hub
	mapID string

	ch     chan Snapshot
	wake   chan struct{}
	done   chan struct{}
	exited chan struct{}

	mu      sync.Mutex
	pending *Snapshot
	closed  bool
}

func newSubscription(h *Hub, mapID string) *Subscription {
	sub := &Subscription{
		hub:    h,
		mapID:  mapID,
		ch:     make(chan Snapshot),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go sub.deliver()
	return sub
}

// Snapshots returns the feed channel. It is closed after Close.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.ch
}

// Close unsubscribes and tears down delivery. When it returns, no further
// snapshot will be delivered; the feed channel is closed.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
	s.shutdown()
}

func (s *Subscription) shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.exited
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	<-s.exited
	close(s.ch)
}

// push stages a snapshot for delivery, replacing any undelivered one.
func (s *Subscription) push(snap Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = &snap
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) deliver() {
	defer close(s.exited)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			snap := s.pending
			s.pending = nil
			s.mu.Unlock()
			if snap == nil {
				break
			}

			select {
			case s.ch <- *snap:
			case <-s.done:
				return
			}
		}
	}
}
