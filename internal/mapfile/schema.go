package mapfile

import (
	"encoding/json"
	"fmt"
	"os"
)

// Version is the current map file format version.
const Version = 1

// MapFile is the top-level JSON structure for map export and import.
// Members nest under their category, so the file carries no ids; import
// assigns fresh ones.
type MapFile struct {
	Version    int             `json:"version"`
	Name       string          `json:"name"`
	Categories []CategoryEntry `json:"categories"`
	Unassigned []PoolEntry     `json:"unassigned,omitempty"`
}

// CategoryEntry is one top-level category and its members, in display order.
type CategoryEntry struct {
	Name    string        `json:"name"`
	Members []MemberEntry `json:"members,omitempty"`
}

// MemberEntry is a member placed under a category.
type MemberEntry struct {
	Name              string `json:"name"`
	Role              string `json:"role,omitempty"`
	IconURL           string `json:"icon_url,omitempty"`
	ChatworkAccountID string `json:"chatwork_account_id,omitempty"`
}

// PoolEntry is a member waiting in the unassigned pool.
type PoolEntry struct {
	Name              string `json:"name"`
	IconURL           string `json:"icon_url,omitempty"`
	ChatworkAccountID string `json:"chatwork_account_id,omitempty"`
}

// Load reads and parses a map file.
func Load(path string) (*MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f MapFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing map file: %w", err)
	}
	return &f, nil
}

// Marshal renders a map file as indented JSON.
func Marshal(f *MapFile) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
