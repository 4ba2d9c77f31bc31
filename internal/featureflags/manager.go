// Package featureflags evaluates feature flags defined in a simple
// key=value list, with percentage rollouts bucketed per user.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags gating optional surfaces.
const (
	FlagFriendsLeaderboard = "friends_leaderboard"
	FlagDoroImages         = "doro_images"
)

// Manager evaluates flags parsed from one comma-separated config string,
// e.g. "friends_leaderboard=on,doro_images=25%". A flag value is on/off
// (also true/false, 1/0) or "N%" for a deterministic per-user rollout.
type Manager struct {
	flags map[string]string
}

// NewManager parses the config string. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, value = canon(name), canon(value)
		if name != "" && value != "" {
			flags[name] = value
		}
	}
	return &Manager{flags: flags}
}

// Enabled reports whether the flag is on for the given user. Unknown flags
// and nil managers evaluate to off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	value, ok := m.flags[canon(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctText, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctText)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		// Anonymous callers have no stable bucket.
		return false
	}
	return bucket(name, userID) < pct
}

// Snapshot evaluates every known flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps a user to a stable 0-99 slot per flag, so rollout cohorts
// differ between flags.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", canon(name), userID)))
	return int(h.Sum32() % 100)
}
