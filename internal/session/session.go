package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleBroker   Role = "CORRETOR"
	RoleCustomer Role = "CLIENTE"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts the backend's role tags regardless of case or padding, anything else is rejected
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleBroker, RoleCustomer:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// Identity is who the Auth Service says is logged in
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  Role   `json:"tipo"`
}

// Snapshot is a consistent view of the store at one point in time
type Snapshot struct {
	Session *Identity
	Loading bool
}

// Store owns the current identity. It starts out absent and loading, and only changes through its setters.
// Create one per request at the root of the handler chain and pass it down.
type Store struct {
	mu       sync.RWMutex
	identity *Identity
	loading  bool
}

func NewStore() *Store {
	return &Store{loading: true}
}

func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		snap.Session = &id
	}
	return snap
}

func (s *Store) SetLoggedIn(identity Identity) {
	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
}

func (s *Store) SetLoadingDone() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}
