package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/torufuji/orgmap/internal/tree"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderOrgTree renders the org chart forest with box-drawing connectors.
// Categories are bold; members show their role dimmed; collapsed categories
// hide their members and carry a right-aligned member-count badge.
func RenderOrgTree(mapName string, forest []*tree.Node, collapsed map[string]bool) string {
	type line struct {
		content string
		badge   string
	}

	lines := []line{{content: StyleHeader.Render(mapName)}}

	var walk func(n *tree.Node, prefix string, isLast bool)
	walk = func(n *tree.Node, prefix string, isLast bool) {
		connector := treeBranch
		childPrefix := prefix + treePipe
		if isLast {
			connector = treeCorner
			childPrefix = prefix + "   "
		}

		title := Bold(n.Name)
		badge := ""
		if n.IsMember() {
			title = StyleFg.Render(n.Name)
			if n.Role != "" {
				title += " " + Dim(n.Role)
			}
		} else if collapsed[n.ID] {
			title += " " + Dim("(+)")
			badge = MemberBadge(tree.MemberCount(n))
		}

		lines = append(lines, line{content: prefix + connector + title, badge: badge})

		if n.IsCategory() && collapsed[n.ID] {
			return
		}
		for i, c := range n.Children {
			walk(c, childPrefix, i == len(n.Children)-1)
		}
	}
	for i, r := range forest {
		walk(r, "", i == len(forest)-1)
	}

	maxWidth := 0
	for _, l := range lines {
		if w := lipgloss.Width(l.content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, l := range lines {
		if l.badge != "" {
			pad := maxWidth - lipgloss.Width(l.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.badge + "\n")
			continue
		}
		b.WriteString(l.content + "\n")
	}
	return b.String()
}

// RenderTreeCounts summarizes the forest, e.g. "3 categories, 7 members".
func RenderTreeCounts(forest []*tree.Node) string {
	categories := 0
	members := 0
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n.IsCategory() {
			categories++
		} else {
			members++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range forest {
		walk(r)
	}
	return Dim(fmt.Sprintf("%d categories, %d members", categories, members))
}
