package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the mapping between logical user identities and their live
// real-time connections. Identities outlive individual connections; a user
// is retired only when the last connection drops.
type Registry struct {
	mu          sync.Mutex
	users       map[string]string // userID -> display name
	connections map[string]string // connectionID -> userID
	connCounts  map[string]int    // userID -> live connection count
}

// NewRegistry bootstraps an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:       make(map[string]string),
		connections: make(map[string]string),
		connCounts:  make(map[string]int),
	}
}

// EnsureSession returns the identity for existingID when it is known,
// otherwise mints a new identity with the lowest unused User_<n> name.
func (r *Registry) EnsureSession(existingID string) (userID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID != "" {
		if name, ok := r.users[existingID]; ok {
			return existingID, name
		}
	}

	userID = uuid.NewString()
	displayName = r.nextUsername()
	r.users[userID] = displayName
	return userID, displayName
}

// nextUsername scans n = 1, 2, 3… for the lowest User_<n> not currently
// assigned. Caller holds the lock.
func (r *Registry) nextUsername() string {
	used := make(map[string]struct{}, len(r.users))
	for _, name := range r.users {
		used[name] = struct{}{}
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("User_%d", n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// Lookup returns the display name for a known identity.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.users[userID]
	return name, ok
}

// BindConnection links a live connection to an identity. Idempotent per
// connection ID.
func (r *Registry) BindConnection(connectionID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.connections[connectionID]; ok {
		if prev == userID {
			return
		}
		r.dropConnCount(prev)
	}

	r.connections[connectionID] = userID
	r.connCounts[userID]++
}

// UnbindConnection removes the link and reports the owning identity along
// with whether it now has zero live connections.
func (r *Registry) UnbindConnection(connectionID string) (userID string, wasLast bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok = r.connections[connectionID]
	if !ok {
		return "", false, false
	}

	delete(r.connections, connectionID)
	r.dropConnCount(userID)
	return userID, r.connCounts[userID] == 0, true
}

func (r *Registry) dropConnCount(userID string) {
	if r.connCounts[userID] <= 1 {
		delete(r.connCounts, userID)
		return
	}
	r.connCounts[userID]--
}

// RetireIfOrphaned removes an identity once it has no live connections.
// Reports whether the identity was removed, returning its display name.
func (r *Registry) RetireIfOrphaned(userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connCounts[userID] > 0 {
		return "", false
	}
	name, ok := r.users[userID]
	if !ok {
		return "", false
	}
	delete(r.users, userID)
	return name, true
}

// Usernames returns the display names of all tracked identities.
func (r *Registry) Usernames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.users))
	for _, name := range r.users {
		names = append(names, name)
	}
	return names
}

// Count reports the number of tracked identities.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Snapshot exposes registry internals for the debug endpoint.
type Snapshot struct {
	Users            map[string]string `json:"users"`
	Connections      map[string]string `json:"connections"`
	ConnectionCounts map[string]int    `json:"connectionCounts"`
	TotalUsers       int               `json:"totalUsers"`
	TotalConnections int               `json:"totalConnections"`
}

// DebugSnapshot copies the registry's internal maps.
func (r *Registry) DebugSnapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make(map[string]string, len(r.users))
	for id, name := range r.users {
		users[id] = name
	}
	conns := make(map[string]string, len(r.connections))
	for id, user := range r.connections {
		conns[id] = user
	}
	counts := make(map[string]int, len(r.connCounts))
	for user, n := range r.connCounts {
		counts[user] = n
	}

	return Snapshot{
		Users:            users,
		Connections:      conns,
		ConnectionCounts: counts,
		TotalUsers:       len(users),
		TotalConnections: len(conns),
	}
}
