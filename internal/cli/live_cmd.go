package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/editor"
	"github.com/torufuji/orgmap/internal/tree"
	"github.com/torufuji/orgmap/internal/watch"
)

func newLiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "live MAP",
		Short: "Watch a map live; edits from other clients appear as they happen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("live view needs an interactive terminal")
			}
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}

			sub, err := app.Hub.Subscribe(ctx, mapID)
			if err != nil {
				return err
			}
			defer sub.Close()

			model := newLiveModel(app, sub)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

type snapshotMsg watch.Snapshot

type feedClosedMsg struct{}

type liveKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k liveKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k liveKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle, k.Quit}}
}

func defaultLiveKeys() liveKeyMap {
	return liveKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous category")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next category")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "collapse/expand")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type liveModel struct {
	sub     *watch.Subscription
	session *editor.Session
	keys    liveKeyMap
	help    help.Model
	cursor  int
	gone    bool
}

func newLiveModel(app *App, sub *watch.Subscription) *liveModel {
	return &liveModel{
		sub:     sub,
		session: editor.NewSession(app.Hub),
		keys:    defaultLiveKeys(),
		help:    help.New(),
	}
}

func (m *liveModel) Init() tea.Cmd {
	return waitForSnapshot(m.sub)
}

func waitForSnapshot(sub *watch.Subscription) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub.Snapshots()
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m *liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.session.Apply(watch.Snapshot(msg))
		if m.session.Deleted() {
			m.gone = true
			return m, tea.Quit
		}
		m.clampCursor()
		return m, waitForSnapshot(m.sub)

	case feedClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.categories())-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			cats := m.categories()
			if m.cursor < len(cats) {
				m.session.ToggleCollapse(cats[m.cursor].ID)
			}
		}
	}
	return m, nil
}

// categories lists top-level categories in display order.
func (m *liveModel) categories() []*domain.OrgNode {
	var out []*domain.OrgNode
	for _, n := range m.session.Snapshot().Nodes {
		if n.ParentID == nil && n.IsCategory() {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (m *liveModel) clampCursor() {
	if n := len(m.categories()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
}

func (m *liveModel) View() string {
	if m.gone {
		return formatter.Dim("This map was deleted.") + "\n"
	}
	snap := m.session.Snapshot()
	if snap.Seq == 0 {
		return formatter.Dim("Loading…") + "\n"
	}

	collapsed := m.session.Collapsed()
	forest := tree.Build(snap.Nodes)
	name := ""
	if snap.Map != nil {
		name = snap.Map.Name
	}

	body := formatter.RenderOrgTree(name, forest, collapsed)

	cats := m.categories()
	var selected string
	if m.cursor < len(cats) {
		selected = cats[m.cursor].Name
	}
	status := formatter.StyleGreen.Render("● live")
	if !m.session.Saved() {
		status = formatter.StyleYellow.Render("○ syncing…")
	}

	footer := fmt.Sprintf("%s  %s\n%s",
		status,
		formatter.Dim(fmt.Sprintf("selected: %s", selected)),
		m.help.View(m.keys),
	)
	return body + "\n" + footer
}
