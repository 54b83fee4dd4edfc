package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveMapID turns user input into a map id: exact id first, then id
// prefix, then exact name.
func resolveMapID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("map ID is required")
	}

	maps, err := app.Maps.List(ctx)
	if err != nil {
		return "", err
	}

	for _, m := range maps {
		if m.ID == input {
			return m.ID, nil
		}
	}

	var matches []string
	for _, m := range maps {
		if strings.HasPrefix(m.ID, input) {
			matches = append(matches, m.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// Fall through to name lookup.
	default:
		return "", fmt.Errorf("map ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}

	for _, m := range maps {
		if m.Name == input {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("map not found: %q", input)
}

// resolveNodeID matches a node id or prefix within one map.
func resolveNodeID(ctx context.Context, app *App, mapID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("node ID is required")
	}

	nodes, err := app.Nodes.ListByMap(ctx, mapID)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, n := range nodes {
		if n.ID == input {
			return n.ID, nil
		}
		if strings.HasPrefix(n.ID, input) {
			matches = append(matches, n.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		for _, n := range nodes {
			if n.Name == input {
				return n.ID, nil
			}
		}
		return "", fmt.Errorf("node not found in map: %q", input)
	default:
		return "", fmt.Errorf("node ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
