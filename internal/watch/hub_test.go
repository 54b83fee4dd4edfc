package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torufuji/orgmap/internal/repository"
	"github.com/torufuji/orgmap/internal/testutil"
)

func setupHub(t *testing.T) (*Hub, *repository.SQLiteMapRepo, *repository.SQLiteNodeRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	maps := repository.NewSQLiteMapRepo(database)
	nodes := repository.NewSQLiteNodeRepo(database)
	unassigned := repository.NewSQLiteUnassignedRepo(database)
	history := repository.NewSQLiteHistoryRepo(database)
	return NewHub(maps, nodes, unassigned, history, nil), maps, nodes
}

func recvSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		require.True(t, ok, "feed closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	hub, maps, nodes := setupHub(t)
	ctx := context.Background()

	m := testutil.NewTestMap("m")
	require.NoError(t, maps.Create(ctx, m))
	cat := testutil.NewTestCategory(m.ID, "医師")
	require.NoError(t, nodes.Create(ctx, cat))

	sub, err := hub.Subscribe(ctx, m.ID)
	require.NoError(t, err)
	defer sub.Close()

	snap := recvSnapshot(t, sub)
	require.NotNil(t, snap.Map)
	assert.Equal(t, m.ID, snap.Map.ID)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "医師", snap.Nodes[0].Name)
}

func TestNotifyPushesFullReplacement(t *testing.T) {
	hub, maps, nodes := setupHub(t)
	ctx := context.Background()

	m := testutil.NewTestMap("m")
	require.NoError(t, maps.Create(ctx, m))

	sub, err := hub.Subscribe(ctx, m.ID)
	require.NoError(t, err)
	defer sub.Close()

	first := recvSnapshot(t, sub)
	assert.Empty(t, first.Nodes)

	cat := testutil.NewTestCategory(m.ID, "看護")
	require.NoError(t, nodes.Create(ctx, cat))
	hub.Notify(ctx, m.ID)

	second := recvSnapshot(t, sub)
	require.Len(t, second.Nodes, 1)
	assert.Equal(t, "看護", second.Nodes[0].Name)
	assert.Greater(t, second.Seq, first.Seq)
}

// Snapshots may coalesce under a slow consumer but must never go backwards.
func TestSnapshotsAreMonotonic(t *testing.T) {
	hub, maps, nodes := setupHub(t)
	ctx := context.Background()

	m := testutil.NewTestMap("m")
	require.NoError(t, maps.Create(ctx, m))

	sub, err := hub.Subscribe(ctx, m.ID)
	require.NoError(t, err)
	defer sub.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, nodes.Create(ctx, testutil.NewTestCategory(m.ID, "c", testutil.WithOrder(i))))
		hub.Notify(ctx, m.ID)
	}

	var last uint64
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-sub.Snapshots():
			assert.Greater(t, snap.Seq, last)
			last = snap.Seq
			if len(snap.Nodes) == 10 {
				return
			}
		case <-deadline:
			t.Fatal("never observed the final snapshot")
		}
	}
}

func TestDeletedMapSnapshotHasNilMap(t *testing.T) {
	hub, maps, _ := setupHub(t)
	ctx := context.Background()

	m := testutil.NewTestMap("m")
	require.NoError(t, maps.Create(ctx, m))

	sub, err := hub.Subscribe(ctx, m.ID)
	require.NoError(t, err)
	defer sub.Close()
	recvSnapshot(t, sub)

	require.NoError(t, maps.Delete(ctx, m.ID))
	hub.Notify(ctx, m.ID)

	snap := recvSnapshot(t, sub)
	assert.Nil(t, snap.Map)
	assert.Empty(t, snap.Nodes)
}

// After Close returns, nothing more may arrive: the feed channel is closed
// and further notifies are not delivered.
func TestCloseStopsDelivery(t *testing.T) {
	hub, maps, nodes := setupHub(t)
	ctx := context.Background()

	m := testutil.NewTestMap("m")
	require.NoError(t, maps.Create(ctx, m))

	sub, err := hub.Subscribe(ctx, m.ID)
	require.NoError(t, err)
	recvSnapshot(t, sub)

	sub.Close()

	_, ok := <-sub.Snapshots()
	assert.False(t, ok, "feed must be closed after Close")

	// Notify after teardown must not panic or deliver.
	require.NoError(t, nodes.Create(ctx, testutil.NewTestCategory(m.ID, "c")))
	hub.Notify(ctx, m.ID)

	_, ok = <-sub.Snapshots()
	assert.False(t, ok)
}

func TestCloseWhileConsumerAbsent(t *testing.T) {
	hub, maps, nodes := setupHub(t)
	ctx := context.Background()

	m := testutil.NewTestMap("m")
	require.NoError(t, maps.Create(ctx, m))

	sub, err := hub.Subscribe(ctx, m.ID)
	require.NoError(t, err)

	// Queue deliveries nobody reads, then tear down; Close must not hang.
	for i := 0; i < 3; i++ {
		require.NoError(t, nodes.Create(ctx, testutil.NewTestCategory(m.ID, "c", testutil.WithOrder(i))))
		hub.Notify(ctx, m.ID)
	}
	sub.Close()
}

func TestIndependentSubscriptions(t *testing.T) {
	hub, maps, _ := setupHub(t)
	ctx := context.Background()

	m1 := testutil.NewTestMap("one")
	m2 := testutil.NewTestMap("two")
	require.NoError(t, maps.Create(ctx, m1))
	require.NoError(t, maps.Create(ctx, m2))

	sub1, err := hub.Subscribe(ctx, m1.ID)
	require.NoError(t, err)
	defer sub1.Close()
	sub2, err := hub.Subscribe(ctx, m2.ID)
	require.NoError(t, err)

	recvSnapshot(t, sub1)
	recvSnapshot(t, sub2)

	// Closing one subscription must not affect the other.
	sub2.Close()
	hub.Notify(ctx, m1.ID)
	snap := recvSnapshot(t, sub1)
	assert.Equal(t, m1.ID, snap.MapID)
}
