package domain

// NodeType distinguishes the two kinds of org-chart nodes.
type NodeType string

const (
	NodeCategory NodeType = "category"
	NodeMember   NodeType = "member"
)

// Valid reports whether the node type is one of the known values.
func (t NodeType) Valid() bool {
	switch t {
	case NodeCategory, NodeMember:
		return true
	}
	return false
}

// HistoryAction classifies an entry in a map's change history.
type HistoryAction string

const (
	ActionAdd    HistoryAction = "add"
	ActionRemove HistoryAction = "remove"
	ActionMove   HistoryAction = "move"
	ActionRename HistoryAction = "rename"
)

// Valid reports whether the action is one of the known values.
func (a HistoryAction) Valid() bool {
	switch a {
	case ActionAdd, ActionRemove, ActionMove, ActionRename:
		return true
	}
	return false
}
