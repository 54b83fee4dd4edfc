// Package editor holds the client-side state of one open map: the latest
// snapshot from the watch hub, the ephemeral collapse set, and the saved
// indicator. Collections change only by applying snapshots; layout and tree
// code never mutate them.
package editor

import (
	"sync"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/layout"
	"github.com/torufuji/orgmap/internal/tree"
	"github.com/torufuji/orgmap/internal/watch"
)

// SeqSource reports the hub's latest snapshot sequence number. The watch hub
// satisfies this.
type SeqSource interface {
	Seq() uint64
}

// Session is the editing state for one map. The collapse set starts empty on
// every new session and is never persisted.
type Session struct {
	seqs SeqSource

	mu         sync.RWMutex
	snap       watch.Snapshot
	collapsed  map[string]bool
	mutatedSeq uint64
}

// NewSession creates an empty session; state arrives via Apply.
func NewSession(seqs SeqSource) *Session {
	return &Session{
		seqs:      seqs,
		collapsed: make(map[string]bool),
	}
}

// Apply replaces the session's collections with the snapshot wholesale.
// Stale snapshots (Seq at or below the current one) are ignored.
func (s *Session) Apply(snap watch.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Seq <= s.snap.Seq {
		return
	}
	s.snap = snap
}

// Snapshot returns the most recently applied snapshot.
func (s *Session) Snapshot() watch.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Deleted reports whether the watched map no longer exists.
func (s *Session) Deleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Seq > 0 && s.snap.Map == nil
}

// ToggleCollapse flips the collapse state of a category.
func (s *Session) ToggleCollapse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collapsed[id] {
		delete(s.collapsed, id)
		return
	}
	s.collapsed[id] = true
}

// Collapsed returns a copy of the collapse set.
func (s *Session) Collapsed() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.collapsed))
	for id := range s.collapsed {
		out[id] = true
	}
	return out
}

// MarkMutated records that a local mutation was committed. Saved turns true
// again once a snapshot at or past the hub's sequence at that moment arrives.
func (s *Session) MarkMutated() {
	seq := s.seqs.Seq()
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.mutatedSeq {
		s.mutatedSeq = seq
	}
}

// Saved reports whether every local mutation is reflected in the applied
// snapshot.
func (s *Session) Saved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Seq >= s.mutatedSeq
}

// Layout computes the radial diagram for the current snapshot.
func (s *Session) Layout(opts layout.Options) layout.Result {
	name, nodes, collapsed := s.layoutInput()
	return layout.Radial(name, nodes, collapsed, opts)
}

// LayoutTree computes the generalized depth-first diagram for the current
// snapshot.
func (s *Session) LayoutTree(opts layout.Options) layout.Result {
	name, nodes, collapsed := s.layoutInput()
	return layout.DepthFirst(name, tree.Build(nodes), collapsed, opts)
}

func (s *Session) layoutInput() (string, []*domain.OrgNode, map[string]bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	collapsed := make(map[string]bool, len(s.collapsed))
	for id := range s.collapsed {
		collapsed[id] = true
	}
	return mapName(s.snap.Map), s.snap.Nodes, collapsed
}

func mapName(m *domain.OrgMap) string {
	if m == nil {
		return ""
	}
	return m.Name
}
