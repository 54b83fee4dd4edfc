package mapfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/testutil"
)

func sampleFile() *MapFile {
	return &MapFile{
		Version: Version,
		Name:    "渋谷クリニック",
		Categories: []CategoryEntry{
			{Name: "医師", Members: []MemberEntry{
				{Name: "田中", Role: "部長"},
				{Name: "佐藤"},
			}},
			{Name: "看護"},
		},
		Unassigned: []PoolEntry{{Name: "高橋", ChatworkAccountID: "42"}},
	}
}

func TestValidateAcceptsWellFormedFile(t *testing.T) {
	assert.Empty(t, Validate(sampleFile()))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	f := &MapFile{
		Version: 99,
		Categories: []CategoryEntry{
			{Name: "医師"},
			{Name: "医師"},
			{Name: "", Members: []MemberEntry{{Name: "  "}}},
		},
		Unassigned: []PoolEntry{{Name: ""}},
	}

	errs := Validate(f)
	require.Len(t, errs, 6)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	assert.Contains(t, msgs, "name is required")
	assert.Contains(t, msgs, `categories[1].name: duplicate category "医師"`)
	assert.Contains(t, msgs, "categories[2].name is required")
	assert.Contains(t, msgs, "categories[2].members[0].name is required")
	assert.Contains(t, msgs, "unassigned[0].name is required")
}

func TestValidateAllowsMissingVersion(t *testing.T) {
	f := sampleFile()
	f.Version = 0
	assert.Empty(t, Validate(f))
}

func TestConvertAssignsFreshIDs(t *testing.T) {
	c := Convert(sampleFile(), "山田")

	require.NotNil(t, c.Map)
	assert.NotEmpty(t, c.Map.ID)
	assert.Equal(t, "渋谷クリニック", c.Map.Name)
	assert.Equal(t, "山田", c.Map.CreatedBy)
	assert.Equal(t, 2, c.Map.MemberCount)

	// 2 categories + 2 members.
	require.Len(t, c.Nodes, 4)

	var categories, members []*domain.OrgNode
	for _, n := range c.Nodes {
		if n.IsCategory() {
			categories = append(categories, n)
		} else {
			members = append(members, n)
		}
	}
	require.Len(t, categories, 2)
	require.Len(t, members, 2)

	assert.Equal(t, "医師", categories[0].Name)
	assert.Equal(t, 0, categories[0].Order)
	assert.Equal(t, "看護", categories[1].Name)
	assert.Equal(t, 1, categories[1].Order)

	for _, m := range members {
		require.NotNil(t, m.ParentID)
		assert.Equal(t, categories[0].ID, *m.ParentID)
		assert.Equal(t, c.Map.ID, m.MapID)
	}
	assert.Equal(t, "部長", members[0].Role)

	require.Len(t, c.Unassigned, 1)
	assert.Equal(t, "高橋", c.Unassigned[0].Name)
	assert.Equal(t, "42", c.Unassigned[0].ChatworkAccountID)
	assert.Equal(t, c.Map.ID, c.Unassigned[0].MapID)
}

func TestExportRoundTrip(t *testing.T) {
	c := Convert(sampleFile(), "山田")

	out := Export(c.Map, c.Nodes, c.Unassigned)
	assert.Equal(t, sampleFile(), out)
}

func TestExportOrdersByDisplayOrder(t *testing.T) {
	m := testutil.NewTestMap("m")
	catB := testutil.NewTestCategory(m.ID, "後", testutil.WithOrder(1))
	catA := testutil.NewTestCategory(m.ID, "先", testutil.WithOrder(0))
	mem2 := testutil.NewTestMember(m.ID, catA.ID, "二番", testutil.WithOrder(1))
	mem1 := testutil.NewTestMember(m.ID, catA.ID, "一番", testutil.WithOrder(0))

	f := Export(m, []*domain.OrgNode{catB, mem2, catA, mem1}, nil)

	require.Len(t, f.Categories, 2)
	assert.Equal(t, "先", f.Categories[0].Name)
	assert.Equal(t, "後", f.Categories[1].Name)
	require.Len(t, f.Categories[0].Members, 2)
	assert.Equal(t, "一番", f.Categories[0].Members[0].Name)
	assert.Equal(t, "二番", f.Categories[0].Members[1].Name)
}

func TestLoadAndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")

	data, err := Marshal(sampleFile())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleFile(), loaded)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestMarshalIsStable(t *testing.T) {
	data, err := Marshal(sampleFile())
	require.NoError(t, err)

	var f MapFile
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, sampleFile(), &f)
}
