package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/repository"
	"github.com/torufuji/orgmap/internal/tree"
)

func TestAddCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)

	first, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeCategory, first.Type)
	assert.Nil(t, first.ParentID)
	assert.Equal(t, 0, first.Order)

	second, err := env.nodeSvc.AddCategory(ctx, m.ID, "看護")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	entries, err := env.historySvc.List(ctx, m.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionAdd, entries[0].Action)
	assert.Equal(t, "看護", entries[0].TargetName)
	assert.Equal(t, "tester", entries[0].UserName)

	assert.Equal(t, 2, env.notifier.count())
}

func TestAddCategoryValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)

	_, err = env.nodeSvc.AddCategory(ctx, m.ID, "   ")
	require.Error(t, err)

	_, err = env.nodeSvc.AddCategory(ctx, "missing-map", "医師")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Equal(t, 0, env.notifier.count())
}

func TestAddMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)

	tanaka, err := env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "田中", "部長", "https://example.com/t.png", "101")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeMember, tanaka.Type)
	require.NotNil(t, tanaka.ParentID)
	assert.Equal(t, cat.ID, *tanaka.ParentID)
	assert.Equal(t, 0, tanaka.Order)
	assert.Equal(t, "部長", tanaka.Role)

	sato, err := env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "佐藤", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, sato.Order)

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.MemberCount)
}

func TestAddMemberRejectsBadParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	member, err := env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "田中", "", "", "")
	require.NoError(t, err)

	// Unknown parent.
	_, err = env.nodeSvc.AddMember(ctx, m.ID, "nope", "佐藤", "", "", "")
	require.Error(t, err)

	// A member can never be a parent; depth stays at two levels.
	_, err = env.nodeSvc.AddMember(ctx, m.ID, member.ID, "佐藤", "", "", "")
	require.Error(t, err)

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MemberCount)
}

func TestRenameCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	notified := env.notifier.count()

	require.NoError(t, env.nodeSvc.RenameCategory(ctx, m.ID, cat.ID, "内科医"))
	stored, err := env.nodes.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "内科医", stored.Name)
	assert.Equal(t, notified+1, env.notifier.count())

	entries, err := env.historySvc.List(ctx, m.ID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionRename, entries[0].Action)
	assert.Equal(t, "内科医", entries[0].TargetName)

	// Unchanged name: no history, no notify.
	require.NoError(t, env.nodeSvc.RenameCategory(ctx, m.ID, cat.ID, "内科医"))
	assert.Equal(t, notified+1, env.notifier.count())

	require.Error(t, env.nodeSvc.RenameCategory(ctx, m.ID, cat.ID, ""))

	member, err := env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "田中", "", "", "")
	require.NoError(t, err)
	require.Error(t, env.nodeSvc.RenameCategory(ctx, m.ID, member.ID, "x"))
}

func TestSetMemberRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	member, err := env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "田中", "", "", "")
	require.NoError(t, err)

	require.NoError(t, env.nodeSvc.SetMemberRole(ctx, m.ID, member.ID, "部長"))
	stored, err := env.nodes.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "部長", stored.Role)

	entries, err := env.historySvc.List(ctx, m.ID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionRename, entries[0].Action)
	assert.Equal(t, domain.NodeMember, entries[0].TargetType)

	// Clearing a role is a real change too.
	require.NoError(t, env.nodeSvc.SetMemberRole(ctx, m.ID, member.ID, ""))
	stored, err = env.nodes.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Role)

	require.Error(t, env.nodeSvc.SetMemberRole(ctx, m.ID, cat.ID, "x"))
}

func TestPlaceMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	office, err := env.nodeSvc.AddCategory(ctx, m.ID, "事務")
	require.NoError(t, err)
	suzuki, err := env.unassignedSvc.Add(ctx, m.ID, "鈴木", "https://example.com/s.png", "202")
	require.NoError(t, err)

	node, err := env.nodeSvc.PlaceMember(ctx, m.ID, suzuki.ID, office.ID)
	require.NoError(t, err)
	assert.Equal(t, "鈴木", node.Name)
	require.NotNil(t, node.ParentID)
	assert.Equal(t, office.ID, *node.ParentID)
	assert.Equal(t, "https://example.com/s.png", node.IconURL)
	assert.Equal(t, "202", node.ChatworkAccountID)

	pool, err := env.unassignedSvc.List(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, pool)

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MemberCount)

	entries, err := env.historySvc.List(ctx, m.ID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionMove, entries[0].Action)
	assert.Equal(t, "鈴木", entries[0].TargetName)
}

func TestPlaceMemberValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	other, err := env.mapSvc.Create(ctx, "other", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "事務")
	require.NoError(t, err)
	suzuki, err := env.unassignedSvc.Add(ctx, m.ID, "鈴木", "", "")
	require.NoError(t, err)

	_, err = env.nodeSvc.PlaceMember(ctx, m.ID, "missing", cat.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Pool entry belongs to a different map.
	_, err = env.nodeSvc.PlaceMember(ctx, other.ID, suzuki.ID, cat.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.nodeSvc.PlaceMember(ctx, m.ID, suzuki.ID, "missing")
	require.Error(t, err)

	// All failed: pool untouched.
	pool, err := env.unassignedSvc.List(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, pool, 1)
}

func TestDeleteMemberNode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	member, err := env.nodeSvc.AddMember(ctx, m.ID, cat.ID, "田中", "", "", "")
	require.NoError(t, err)
	before, err := env.historySvc.List(ctx, m.ID, 0)
	require.NoError(t, err)

	require.NoError(t, env.nodeSvc.DeleteNode(ctx, m.ID, member.ID))

	_, err = env.nodes.GetByID(ctx, member.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.MemberCount)

	// Deletion leaves no history entry.
	after, err := env.historySvc.List(ctx, m.ID, 0)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestDeleteCategoryCascadesToChildren(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	doctors, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	nurses, err := env.nodeSvc.AddCategory(ctx, m.ID, "看護")
	require.NoError(t, err)
	for _, name := range []string{"田中", "佐藤", "高橋"} {
		_, err = env.nodeSvc.AddMember(ctx, m.ID, doctors.ID, name, "", "", "")
		require.NoError(t, err)
	}
	_, err = env.nodeSvc.AddMember(ctx, m.ID, nurses.ID, "鈴木", "", "", "")
	require.NoError(t, err)

	require.NoError(t, env.nodeSvc.DeleteNode(ctx, m.ID, doctors.ID))

	nodes, err := env.nodes.ListByMap(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.NotEqual(t, doctors.ID, n.ID)
		if n.ParentID != nil {
			assert.Equal(t, nurses.ID, *n.ParentID)
		}
	}

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MemberCount)
}

func TestDeleteNodeWrongMap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)
	other, err := env.mapSvc.Create(ctx, "other", "u1")
	require.NoError(t, err)
	cat, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)

	assert.ErrorIs(t, env.nodeSvc.DeleteNode(ctx, other.ID, cat.ID), repository.ErrNotFound)
	_, err = env.nodes.GetByID(ctx, cat.ID)
	require.NoError(t, err)
}

// A mixed mutation sequence must leave the stored nodes a valid two-level
// forest with unique sibling orders and a consistent member count.
func TestMutationSequenceKeepsForestConsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.mapSvc.Create(ctx, "m", "u1")
	require.NoError(t, err)

	doctors, err := env.nodeSvc.AddCategory(ctx, m.ID, "医師")
	require.NoError(t, err)
	nurses, err := env.nodeSvc.AddCategory(ctx, m.ID, "看護")
	require.NoError(t, err)
	tanaka, err := env.nodeSvc.AddMember(ctx, m.ID, doctors.ID, "田中", "", "", "")
	require.NoError(t, err)
	_, err = env.nodeSvc.AddMember(ctx, m.ID, doctors.ID, "佐藤", "", "", "")
	require.NoError(t, err)
	suzuki, err := env.unassignedSvc.Add(ctx, m.ID, "鈴木", "", "")
	require.NoError(t, err)
	_, err = env.nodeSvc.PlaceMember(ctx, m.ID, suzuki.ID, nurses.ID)
	require.NoError(t, err)
	require.NoError(t, env.nodeSvc.DeleteNode(ctx, m.ID, tanaka.ID))
	require.NoError(t, env.nodeSvc.RenameCategory(ctx, m.ID, doctors.ID, "内科"))

	nodes, err := env.nodes.ListByMap(ctx, m.ID)
	require.NoError(t, err)

	ids := make(map[string]*domain.OrgNode, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = n
	}
	siblingOrders := map[string]map[int]bool{}
	for _, n := range nodes {
		key := ""
		if n.ParentID != nil {
			parent, ok := ids[*n.ParentID]
			require.True(t, ok, "member references a missing parent")
			assert.True(t, parent.IsCategory())
			key = *n.ParentID
		} else {
			assert.True(t, n.IsCategory(), "top level holds categories only")
		}
		if siblingOrders[key] == nil {
			siblingOrders[key] = map[int]bool{}
		}
		assert.False(t, siblingOrders[key][n.Order], "duplicate order among siblings")
		siblingOrders[key][n.Order] = true
	}

	// The builder keeps every node: nothing became an orphan.
	forest := tree.Build(nodes)
	total := 0
	members := 0
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		total++
		if n.IsMember() {
			members++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range forest {
		walk(r)
	}
	assert.Equal(t, len(nodes), total)

	stored, err := env.maps.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, members, stored.MemberCount)
	assert.Equal(t, 2, stored.MemberCount)
}
