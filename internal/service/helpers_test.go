package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/torufuji/orgmap/internal/repository"
	"github.com/torufuji/orgmap/internal/testutil"
)

type testEnv struct {
	db         *sql.DB
	maps       *repository.SQLiteMapRepo
	nodes      *repository.SQLiteNodeRepo
	unassigned *repository.SQLiteUnassignedRepo
	history    *repository.SQLiteHistoryRepo
	notifier   *recordingNotifier

	mapSvc        MapService
	nodeSvc       NodeService
	unassignedSvc UnassignedService
	historySvc    HistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	notifier := &recordingNotifier{}

	env := &testEnv{
		db:         database,
		maps:       repository.NewSQLiteMapRepo(database),
		nodes:      repository.NewSQLiteNodeRepo(database),
		unassigned: repository.NewSQLiteUnassignedRepo(database),
		history:    repository.NewSQLiteHistoryRepo(database),
		notifier:   notifier,
	}
	actor := Actor{ID: "u1", Name: "tester"}
	env.mapSvc = NewMapService(env.maps, uow, notifier)
	env.nodeSvc = NewNodeService(env.nodes, uow, actor, notifier)
	env.unassignedSvc = NewUnassignedService(env.maps, env.unassigned, notifier)
	env.historySvc = NewHistoryService(env.history)
	return env
}

// recordingNotifier captures Notify calls for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	mapIDs []string
}

func (r *recordingNotifier) Notify(_ context.Context, mapID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mapIDs = append(r.mapIDs, mapID)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mapIDs)
}
