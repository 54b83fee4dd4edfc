// Package watch delivers full-replacement snapshots of a map's state to
// subscribers whenever the backing store commits a change. The model is
// last-pushed-snapshot-wins: subscribers replace their local copy wholesale,
// so intermediate snapshots may be coalesced but never reordered.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/repository"
)

// Snapshot is a point-in-time replacement of every collection owned by a map.
// Seq increases monotonically per hub; a nil Map means the map no longer
// exists (e.g. it was deleted while being watched).
type Snapshot struct {
	Seq        uint64
	MapID      string
	Map        *domain.OrgMap
	Nodes      []*domain.OrgNode
	Unassigned []*domain.UnassignedMember
	History    []*domain.HistoryEntry
}

// Hub reloads map state on every notify and fans it out to subscribers.
// Mutation services call Notify after their transaction commits.
type Hub struct {
	maps       repository.MapRepo
	nodes      repository.NodeRepo
	unassigned repository.UnassignedRepo
	history    repository.HistoryRepo
	logger     *slog.Logger

	mu   sync.Mutex
	seq  uint64
	subs map[string]map[*Subscription]struct{}
}

// NewHub creates a Hub reading from the given repositories. A nil logger
// discards reload failures.
func NewHub(maps repository.MapRepo, nodes repository.NodeRepo, unassigned repository.UnassignedRepo, history repository.HistoryRepo, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		maps:       maps,
		nodes:      nodes,
		unassigned: unassigned,
		history:    history,
		logger:     logger,
		subs:       make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a watcher for mapID and queues an initial snapshot of
// the current state. The caller must Close the subscription when done.
func (h *Hub) Subscribe(ctx context.Context, mapID string) (*Subscription, error) {
	sub := newSubscription(h, mapID)

	h.mu.Lock()
	if h.subs[mapID] == nil {
		h.subs[mapID] = make(map[*Subscription]struct{})
	}
	h.subs[mapID][sub] = struct{}{}

	snap, err := h.load(ctx, mapID)
	if err != nil {
		delete(h.subs[mapID], sub)
		h.mu.Unlock()
		sub.shutdown()
		return nil, err
	}
	h.seq++
	snap.Seq = h.seq
	sub.push(snap)
	h.mu.Unlock()

	return sub, nil
}

// Notify reloads mapID's collections and pushes the result to every
// subscriber. Snapshots are assigned sequence numbers under the hub lock in
// call order, so subscribers observe them in the order the store committed.
func (h *Hub) Notify(ctx context.Context, mapID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.subs[mapID]) == 0 {
		// Still advance the sequence so saved-state tracking works without
		// an active watcher.
		h.seq++
		return
	}

	snap, err := h.load(ctx, mapID)
	if err != nil {
		h.logger.Error("snapshot reload failed", "map_id", mapID, "error", err)
		return
	}
	h.seq++
	snap.Seq = h.seq

	for sub := range h.subs[mapID] {
		sub.push(snap)
	}
}

// Seq returns the sequence number of the most recent snapshot.
func (h *Hub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// load reads every collection of a map. A missing map row is not an error:
// the snapshot carries a nil Map so watchers can observe deletion.
func (h *Hub) load(ctx context.Context, mapID string) (Snapshot, error) {
	snap := Snapshot{MapID: mapID}

	m, err := h.maps.GetByID(ctx, mapID)
	switch {
	case err == nil:
		snap.Map = m
	case errors.Is(err, repository.ErrNotFound):
		return snap, nil
	default:
		return snap, err
	}

	if snap.Nodes, err = h.nodes.ListByMap(ctx, mapID); err != nil {
		return snap, err
	}
	if snap.Unassigned, err = h.unassigned.ListByMap(ctx, mapID); err != nil {
		return snap, err
	}
	if snap.History, err = h.history.ListByMap(ctx, mapID, 0); err != nil {
		return snap, err
	}
	return snap, nil
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.mapID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.mapID)
		}
	}
}
