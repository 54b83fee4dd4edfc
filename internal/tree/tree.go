// Package tree converts a flat, parent-referenced node list into the nested
// forest the layout engine walks. It is a pure computation over a snapshot;
// it never mutates the domain collections.
package tree

import (
	"sort"

	"github.com/torufuji/orgmap/internal/domain"
)

// Node is an org node augmented with its resolved children, ordered by the
// nodes' Order field.
type Node struct {
	*domain.OrgNode
	Children []*Node
}

// Build assembles the forest of root nodes from a flat node list.
//
/// Nodes whose ParentID references an id absent from the input are dropped:
// the backing store's cascade delete should prevent orphans, but the builder
// stays defensive against them rather than failing the whole tree.
//
// Children and roots are sorted by Order ascending; the sort is stable, so
// tied Order values keep their input sequence. Because output order is
// normalized this way, any permutation of the same node set builds an
// identical forest.
func Build(nodes []*domain.OrgNode) []*Node {
	wrapped := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		wrapped[n.ID] = &Node{OrgNode: n}
	}

	var roots []*Node
	for _, n := range nodes {
		tn := wrapped[n.ID]
		if n.ParentID == nil {
			roots = append(roots, tn)
			continue
		}
		if parent, ok := wrapped[*n.ParentID]; ok {
			parent.Children = append(parent.Children, tn)
		}
	}

	sortForest(roots)
	return roots
}

func sortForest(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
	for _, n := range nodes {
		sortForest(n.Children)
	}
}

// MemberCount returns the total number of member-type nodes in the subtree
// rooted at n, counting n itself. Categories contribute 0, members 1,
// accumulated bottom-up.
func MemberCount(n *Node) int {
	count := 0
	if n.Type == domain.NodeMember {
		count = 1
	}
	for _, c := range n.Children {
		count += MemberCount(c)
	}
	return count
}
