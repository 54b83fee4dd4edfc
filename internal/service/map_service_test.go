package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torufuji/orgmap/internal/mapfile"
	"github.com/torufuji/orgmap/internal/repository"
)

func TestMapCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "  営業部  ", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "営業部", m.Name)
	assert.Equal(t, 0, m.MemberCount)

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Name, stored.Name)
}

func TestMapCreateRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.mapSvc.Create(context.Background(), "   ", "u1")
	require.Error(t, err)
}

func TestMapRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "before", "u1")
	require.NoError(t, err)

	require.NoError(t, env.mapSvc.Rename(ctx, m.ID, "after"))
	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Name)
	assert.Equal(t, 1, env.notifier.count())

	// Same name is a no-op: no write, no notify.
	require.NoError(t, env.mapSvc.Rename(ctx, m.ID, "after"))
	assert.Equal(t, 1, env.notifier.count())

	require.Error(t, env.mapSvc.Rename(ctx, m.ID, "  "))
}

func TestMapListNewestUpdatedFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.mapSvc.Create(ctx, "first", "u1")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := env.mapSvc.Create(ctx, "second", "u1")
	require.NoError(t, err)

	maps, err := env.mapSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, second.ID, maps[0].ID)

	// Editing the older map moves it to the front.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, env.mapSvc.Rename(ctx, first.ID, "first edited"))
	maps, err = env.mapSvc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, maps[0].ID)
}

func TestMapShareURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)

	url, err := env.mapSvc.ShareURL(ctx, "https://orgmap.example/", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://orgmap.example/map/"+m.ID, url)

	_, err = env.mapSvc.ShareURL(ctx, "https://orgmap.example", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMapDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "doomed", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	_, err = env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "田中", "", "", "")
	require.NoError(t, err)

	require.NoError(t, env.mapSvc.Delete(ctx, m.ID))

	_, err = env.maps.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	nodes, err := env.nodes.ListByMap(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	assert.ErrorIs(t, env.mapSvc.Delete(ctx, m.ID), repository.ErrNotFound)
}

func TestMapDuplicateDeepCopies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src, err := env.mapSvc.Create(ctx, "原本", "u1")
	require.NoError(t, err)
	doctors, err := env.nodeSvc.AddCategory(ctx, src.ID, "医師")
	require.NoError(t, err)
	nurses, err := env.nodeSvc.AddCategory(ctx, src.ID, "看護")
	require.NoError(t, err)
	_, err = env.nodeSvc.AddMember(ctx, src.ID, doctors.ID, "田中", "部長", "", "")
	require.NoError(t, err)
	_, err = env.nodeSvc.AddMember(ctx, src.ID, nurses.ID, "佐藤", "", "", "")
	require.NoError(t, err)
	_, err = env.unassignedSvc.Add(ctx, src.ID, "高橋", "", "")
	require.NoError(t, err)

	dup, err := env.mapSvc.Duplicate(ctx, src.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "原本 のコピー", dup.Name)
	assert.Equal(t, 2, dup.MemberCount)
	assert.NotEqual(t, src.ID, dup.ID)

	nodes, err := env.nodes.ListByMap(ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	// Fresh ids, same structure and order.
	srcNodes, err := env.nodes.ListByMap(ctx, src.ID)
	require.NoError(t, err)
	srcIDs := make(map[string]bool, len(srcNodes))
	for _, n := range srcNodes {
		srcIDs[n.ID] = true
	}
	byName := map[string]int{}
	for _, n := range nodes {
		assert.False(t, srcIDs[n.ID], "duplicated node reused a source id")
		assert.Equal(t, dup.ID, n.MapID)
		byName[n.Name] = n.Order
		if n.IsMember() {
			require.NotNil(t, n.ParentID)
			assert.False(t, srcIDs[*n.ParentID], "member parent not remapped")
		}
	}
	assert.Equal(t, 0, byName["医師"])
	assert.Equal(t, 1, byName["看護"])

	pool, err := env.unassigned.ListByMap(ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "高橋", pool[0].Name)

	// History stays with the source.
	entries, err := env.historySvc.List(ctx, dup.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMapDuplicateWithExplicitName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src, err := env.mapSvc.Create(ctx, "原本", "u1")
	require.NoError(t, err)

	dup, err := env.mapSvc.Duplicate(ctx, src.ID, "新組織図")
	require.NoError(t, err)
	assert.Equal(t, "新組織図", dup.Name)
}

func TestMapImportFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := &mapfile.MapFile{
		Version: mapfile.Version,
		Name:    "渋谷クリニック",
		Categories: []mapfile.CategoryEntry{
			{Name: "医師", Members: []mapfile.MemberEntry{{Name: "田中", Role: "部長"}}},
			{Name: "看護"},
		},
		Unassigned: []mapfile.PoolEntry{{Name: "高橋"}},
	}
	require.Empty(t, mapfile.Validate(f))

	m, err := env.mapSvc.ImportFile(ctx, mapfile.Convert(f, "u1"))
	require.NoError(t, err)
	assert.Equal(t, "渋谷クリニック", m.Name)

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MemberCount)

	nodes, err := env.nodes.ListByMap(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)

	pool, err := env.unassigned.ListByMap(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "高橋", pool[0].Name)

	entries, err := env.historySvc.List(ctx, m.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "imports carry no history")
}

func TestMapImportFileRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)

	contents := mapfile.Convert(&mapfile.MapFile{Name: "   "}, "u1")
	_, err := env.mapSvc.ImportFile(context.Background(), contents)
	require.Error(t, err)

	maps, err := env.maps.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, maps)
}
