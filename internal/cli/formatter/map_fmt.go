package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/layout"
)

// FormatMapList renders the map overview, newest updated first.
func FormatMapList(maps []*domain.OrgMap) string {
	var b strings.Builder
	b.WriteString(Header("Org Maps") + "\n")
	for _, m := range maps {
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			TruncID(m.ID),
			Bold(m.Name),
			MemberBadge(m.MemberCount),
			Dim(HumanTimestamp(m.UpdatedAt)),
		))
	}
	return b.String()
}

// FormatHistory renders history entries newest first.
func FormatHistory(entries []*domain.HistoryEntry) string {
	if len(entries) == 0 {
		return Dim("No history yet.")
	}
	var b strings.Builder
	b.WriteString(Header("History") + "\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s  %s  %s %s\n",
			Dim(HumanTimestamp(e.Timestamp)),
			actionPill(e.Action),
			StyleFg.Render(e.Detail),
			Dim("by "+e.UserName),
		))
	}
	return b.String()
}

func actionPill(a domain.HistoryAction) string {
	switch a {
	case domain.ActionAdd:
		return StyleGreen.Render("＋add   ")
	case domain.ActionRemove:
		return StyleRed.Render("－remove")
	case domain.ActionMove:
		return StyleBlue.Render("→move   ")
	case domain.ActionRename:
		return StyleYellow.Render("✎rename ")
	default:
		return StyleDim.Render(string(a))
	}
}

// FormatUnassigned renders the unassigned member pool.
func FormatUnassigned(pool []*domain.UnassignedMember) string {
	if len(pool) == 0 {
		return Dim("The unassigned pool is empty.")
	}
	var b strings.Builder
	b.WriteString(Header("Unassigned") + "\n")
	for _, u := range pool {
		line := fmt.Sprintf("%s  %s", TruncID(u.ID), StyleFg.Render(u.Name))
		if u.ChatworkAccountID != "" {
			line += "  " + StylePurple.Render("cw:"+u.ChatworkAccountID)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatDiagram renders a computed layout as text: nodes appear top to
// bottom in y order, indented one column per x step, mirroring the diagram's
// geometry.
func FormatDiagram(result layout.Result) string {
	if len(result.Nodes) == 0 {
		return ""
	}

	xs := make([]float64, 0, len(result.Nodes))
	seen := map[float64]bool{}
	for _, n := range result.Nodes {
		if !seen[n.X] {
			seen[n.X] = true
			xs = append(xs, n.X)
		}
	}
	sort.Float64s(xs)
	column := make(map[float64]int, len(xs))
	for i, x := range xs {
		column[x] = i
	}

	nodes := make([]layout.Node, len(result.Nodes))
	copy(nodes, result.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Y != nodes[j].Y {
			return nodes[i].Y < nodes[j].Y
		}
		return nodes[i].X < nodes[j].X
	})

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(strings.Repeat("    ", column[n.X]))
		b.WriteString(diagramLabel(n))
		b.WriteString("\n")
	}
	return b.String()
}

func diagramLabel(n layout.Node) string {
	switch n.Kind {
	case layout.KindRoot:
		return StyleHeader.Render("◎ " + n.Label)
	case layout.KindCategory:
		label := Bold(n.Label)
		if n.Collapsed {
			label += " " + Dim("(+)") + " " + MemberBadge(n.Badge)
		}
		return label
	case layout.KindMember:
		label := StyleFg.Render(n.Label)
		if n.Role != "" {
			label += " " + Dim(n.Role)
		}
		return label
	case layout.KindAdd:
		return Dim("＋ カテゴリを追加")
	default:
		return n.Label
	}
}
