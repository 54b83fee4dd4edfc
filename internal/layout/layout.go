// Package layout converts org-chart entities into positioned visual nodes and
// connecting edges. Both entry points are pure functions of
// (entities, collapse set, options): no state is carried between invocations,
// so callers simply recompute the layout on every model change.
package layout

import (
	"fmt"
	"sort"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/tree"
)

// Kind identifies the visual variant of a node. The set is closed: renderers
// dispatch exhaustively on it instead of probing for optional fields.
type Kind string

const (
	KindRoot     Kind = "root"
	KindCategory Kind = "category"
	KindMember   Kind = "member"
	KindAdd      Kind = "add"
)

// Node is one positioned visual element.
//
// IDs are derived deterministically from the source entity: entity nodes
// reuse the entity id, the root pseudo-node is "root" and the add-category
// affordance is "add-category". Layout never generates random ids.
type Node struct {
	ID    string
	Kind  Kind
	X, Y  float64
	Label string

	// Category fields. Badge is the member count of the subtree; renderers
	// show it when the category is collapsed.
	Badge     int
	Collapsed bool

	// Member fields.
	Role    string
	IconURL string
}

// Edge connects a parent visual node to a child. Dashed marks the synthetic
// root → add-category edge; real hierarchy edges are solid.
type Edge struct {
	ID     string
	Source string
	Target string
	Dashed bool
}

// Result is the full visual graph for one layout pass.
type Result struct {
	Nodes []Node
	Edges []Edge
}

// Options holds the spacing constants for a layout pass.
type Options struct {
	RootX    float64
	RootY    float64
	HSpacing float64 // distance between depth columns
	VSpacing float64 // distance between category rows / tree rows

	// Radial-only knobs.
	MemberRow   float64 // vertical distance between member rows
	MemberShift float64 // extra per-member advance applied to the category cursor
	AddGap      float64 // gap between the last category slot and the add control
}

// RadialOptions returns the spacing used by the single-level fan-out layout.
func RadialOptions() Options {
	return Options{
		RootX:       50,
		RootY:       200,
		HSpacing:    250,
		VSpacing:    70,
		MemberRow:   60,
		MemberShift: 30,
		AddGap:      20,
	}
}

// DepthFirstOptions returns the spacing used by the generalized tree layout.
func DepthFirstOptions() Options {
	return Options{
		RootX:    50,
		RootY:    50,
		HSpacing: 250,
		VSpacing: 80,
	}
}

func edgeID(source, target string) string {
	return fmt.Sprintf("e-%s-%s", source, target)
}

const (
	rootID = "root"
	addID  = "add-category"
)

// Radial lays out the chart as a single-level fan: one vertical column of
// categories next to the root, and one column of members next to each
// expanded category, both centered on their parent. Collapsed categories
// contribute no member nodes and no member height; their Badge carries the
// hidden member count. The trailing add-category control hangs off the root
// with a dashed edge.
func Radial(mapName string, nodes []*domain.OrgNode, collapsed map[string]bool, opts Options) Result {
	var res Result

	res.Nodes = append(res.Nodes, Node{
		ID:    rootID,
		Kind:  KindRoot,
		X:     opts.RootX,
		Y:     opts.RootY,
		Label: mapName,
	})

	categories := childrenOf(nodes, nil)

	if len(categories) == 0 {
		// Root connects straight to the add control at root height.
		res.Nodes = append(res.Nodes, Node{
			ID:   addID,
			Kind: KindAdd,
			X:    opts.RootX + opts.HSpacing,
			Y:    opts.RootY,
		})
		res.Edges = append(res.Edges, Edge{
			ID:     edgeID(rootID, "add"),
			Source: rootID,
			Target: addID,
			Dashed: true,
		})
		return res
	}

	categoryY := opts.RootY - float64(len(categories)-1)*opts.VSpacing/2

	for _, cat := range categories {
		members := childrenOf(nodes, &cat.ID)
		isCollapsed := collapsed[cat.ID]

		res.Nodes = append(res.Nodes, Node{
			ID:        cat.ID,
			Kind:      KindCategory,
			X:         opts.RootX + opts.HSpacing,
			Y:         categoryY,
			Label:     cat.Name,
			Badge:     len(members),
			Collapsed: isCollapsed,
		})
		res.Edges = append(res.Edges, Edge{
			ID:     edgeID(rootID, cat.ID),
			Source: rootID,
			Target: cat.ID,
		})

		if !isCollapsed {
			memberY := categoryY - float64(len(members)-1)*opts.MemberRow/2
			for _, m := range members {
				res.Nodes = append(res.Nodes, Node{
					ID:      m.ID,
					Kind:    KindMember,
					X:       opts.RootX + opts.HSpacing*2,
					Y:       memberY,
					Label:   m.Name,
					Role:    m.Role,
					IconURL: m.IconURL,
				})
				res.Edges = append(res.Edges, Edge{
					ID:     edgeID(cat.ID, m.ID),
					Source: cat.ID,
					Target: m.ID,
				})
				memberY += opts.MemberRow
			}
		}

		categoryY += opts.VSpacing
		if !isCollapsed {
			categoryY += float64(len(members)) * opts.MemberShift
		}
	}

	res.Nodes = append(res.Nodes, Node{
		ID:   addID,
		Kind: KindAdd,
		X:    opts.RootX + opts.HSpacing,
		Y:    categoryY + opts.AddGap,
	})
	res.Edges = append(res.Edges, Edge{
		ID:     edgeID(rootID, "add"),
		Source: rootID,
		Target: addID,
		Dashed: true,
	})

	return res
}

// childrenOf returns the nodes under parentID sorted by Order, stable with
// respect to input sequence. A nil parentID selects the top-level categories.
func childrenOf(nodes []*domain.OrgNode, parentID *string) []*domain.OrgNode {
	var out []*domain.OrgNode
	for _, n := range nodes {
		if parentID == nil {
			if n.ParentID == nil {
				out = append(out, n)
			}
		} else if n.ParentID != nil && *n.ParentID == *parentID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// DepthFirst lays out a built forest with a pre-order walk: each visited node
// sits at x = RootX + (depth+1)·HSpacing, and a single vertical cursor
// advances by VSpacing after every visited node whether or not it has
// children. Collapsed nodes are placed but their subtree is not entered; a
// category's Badge carries the member count of its whole subtree. The walk
// does not assume any particular depth.
func DepthFirst(mapName string, roots []*tree.Node, collapsed map[string]bool, opts Options) Result {
	var res Result

	res.Nodes = append(res.Nodes, Node{
		ID:    rootID,
		Kind:  KindRoot,
		X:     opts.RootX,
		Y:     opts.RootY,
		Label: mapName,
	})

	cursor := opts.RootY

	var walk func(n *tree.Node, depth int, parentID string)
	walk = func(n *tree.Node, depth int, parentID string) {
		kind := KindCategory
		if n.Type == domain.NodeMember {
			kind = KindMember
		}
		isCollapsed := collapsed[n.ID]

		res.Nodes = append(res.Nodes, Node{
			ID:        n.ID,
			Kind:      kind,
			X:         opts.RootX + float64(depth+1)*opts.HSpacing,
			Y:         cursor,
			Label:     n.Name,
			Badge:     tree.MemberCount(n),
			Collapsed: isCollapsed,
			Role:      n.Role,
			IconURL:   n.IconURL,
		})
		res.Edges = append(res.Edges, Edge{
			ID:     edgeID(parentID, n.ID),
			Source: parentID,
			Target: n.ID,
		})

		cursor += opts.VSpacing

		if isCollapsed {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1, n.ID)
		}
	}

	for _, r := range roots {
		walk(r, 0, rootID)
	}

	return res
}
