// ABOUTME: Persists the last fetched list of each slice in Charm KV
// ABOUTME: Lets the CLI and TUI show cached data before the backend answers

package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SnapshotPrefix namespaces snapshot keys.
const SnapshotPrefix = "snapshot:"

type snapshotEnvelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Items   json.RawMessage `json:"items"`
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Name    string
	SavedAt time.Time
	Count   int
	// Stale is set once the snapshot is older than the configured threshold.
	Stale bool
}

// SnapshotCache stores JSON-encoded lists under snapshot:<name>.
type SnapshotCache struct {
	client *Client
	now    func() time.Time
}

// NewSnapshotCache wraps c.
func NewSnapshotCache(c *Client) *SnapshotCache {
	return &SnapshotCache{client: c, now: time.Now}
}

func snapshotKey(name string) []byte {
	return []byte(SnapshotPrefix + name)
}

// Save replaces the snapshot for name with v.
func (s *SnapshotCache) Save(name string, v any) error {
	items, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", name, err)
	}
	data, err := json.Marshal(snapshotEnvelope{SavedAt: s.now().UTC(), Items: items})
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", name, err)
	}
	if err := s.client.Set(snapshotKey(name), data); err != nil {
		return fmt.Errorf("failed to store %s snapshot: %w", name, err)
	}
	return nil
}

// Load decodes the snapshot for name into v. It reports false when no
// snapshot exists.
func (s *SnapshotCache) Load(name string, v any) (bool, error) {
	env, err := s.envelope(name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(env.Items, v); err != nil {
		return false, fmt.Errorf("failed to decode %s snapshot: %w", name, err)
	}
	return true, nil
}

// List describes every stored snapshot.
func (s *SnapshotCache) List() ([]SnapshotInfo, error) {
	threshold := s.client.Config().StaleThreshold

	keys, err := s.client.KeysWithPrefix([]byte(SnapshotPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var out []SnapshotInfo
	for _, k := range keys {
		name := strings.TrimPrefix(string(k), SnapshotPrefix)
		env, err := s.envelope(name)
		if err != nil {
			return nil, err
		}
		var items []json.RawMessage
		_ = json.Unmarshal(env.Items, &items)
		out = append(out, SnapshotInfo{
			Name:    name,
			SavedAt: env.SavedAt,
			Count:   len(items),
			Stale:   threshold > 0 && s.now().Sub(env.SavedAt) > threshold,
		})
	}
	return out, nil
}

// Clear deletes every snapshot and returns how many were removed.
func (s *SnapshotCache) Clear() (int, error) {
	keys, err := s.client.KeysWithPrefix([]byte(SnapshotPrefix))
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}
	for _, k := range keys {
		if err := s.client.Delete(k); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return len(keys), nil
}

func (s *SnapshotCache) envelope(name string) (snapshotEnvelope, error) {
	var env snapshotEnvelope
	data, err := s.client.Get(snapshotKey(name))
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("failed to decode %s snapshot: %w", name, err)
	}
	return env, nil
}
