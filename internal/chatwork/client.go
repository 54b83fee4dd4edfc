// Package chatwork is a minimal client for the Chatwork REST API v2, used to
// pull a user's contact directory into the unassigned pool.
package chatwork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Chatwork API endpoint.
const DefaultBaseURL = "https://api.chatwork.com/v2"

// ErrUnauthorized is returned when the API token is rejected.
var ErrUnauthorized = errors.New("chatwork: invalid API token")

// Me is the authenticated account.
type Me struct {
	AccountID        int    `json:"account_id"`
	Name             string `json:"name"`
	ChatworkID       string `json:"chatwork_id"`
	OrganizationName string `json:"organization_name"`
	AvatarImageURL   string `json:"avatar_image_url"`
}

// Room is a chat room the account belongs to.
type Room struct {
	RoomID int    `json:"room_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// RoomMember is one participant of a room.
type RoomMember struct {
	AccountID      int    `json:"account_id"`
	Name           string `json:"name"`
	ChatworkID     string `json:"chatwork_id"`
	Role           string `json:"role"`
	AvatarImageURL string `json:"avatar_image_url"`
}

// Contact is an entry of the account's contact directory.
type Contact struct {
	AccountID      int    `json:"account_id"`
	RoomID         int    `json:"room_id"`
	Name           string `json:"name"`
	ChatworkID     string `json:"chatwork_id"`
	AvatarImageURL string `json:"avatar_image_url"`
}

// Client provides access to the Chatwork API. The token is passed per call so
// one client can serve multiple accounts.
type Client interface {
	Me(ctx context.Context, token string) (*Me, error)
	Rooms(ctx context.Context, token string) ([]Room, error)
	RoomMembers(ctx context.Context, token string, roomID int) ([]RoomMember, error)
	Contacts(ctx context.Context, token string) ([]Contact, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewHTTPClient creates a Client against baseURL; an empty baseURL uses the
// production endpoint.
func NewHTTPClient(baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &httpClient{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: 10 * time.Second,
	}
}

func (c *httpClient) Me(ctx context.Context, token string) (*Me, error) {
	var me Me
	if err := c.get(ctx, token, "/me", &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *httpClient) Rooms(ctx context.Context, token string) ([]Room, error) {
	var rooms []Room
	if err := c.get(ctx, token, "/rooms", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *httpClient) RoomMembers(ctx context.Context, token string, roomID int) ([]RoomMember, error) {
	var members []RoomMember
	if err := c.get(ctx, token, fmt.Sprintf("/rooms/%d/members", roomID), &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *httpClient) Contacts(ctx context.Context, token string) ([]Contact, error) {
	var contacts []Contact
	if err := c.get(ctx, token, "/contacts", &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *httpClient) get(ctx context.Context, token, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-ChatWorkToken", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling chatwork: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		// Empty collections come back as 204 with no body.
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("chatwork returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// ValidateToken reports whether the token is accepted by the API.
func ValidateToken(ctx context.Context, c Client, token string) bool {
	_, err := c.Me(ctx, token)
	return err == nil
}
