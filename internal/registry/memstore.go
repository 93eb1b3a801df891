package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory UserStore used by tests and database-less runs.
// All coordination happens under a single mutex.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
	seq   map[uuid.UUID]int
	next  int
}

// NewMemoryStore creates an empty in-memory user store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*User),
		seq:   make(map[uuid.UUID]int),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return NewDuplicateUserError(user.Email)
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	s.next++
	s.seq[user.ID] = s.next
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, NewUserNotFoundError(id.String())
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, NewUserNotFoundError(email)
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		clone := *user
		users = append(users, &clone)
	}

	// newest first; insertion order breaks creation-time ties
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return s.seq[users[i].ID] > s.seq[users[j].ID]
	})
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return NewUserNotFoundError(user.ID.String())
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return NewUserNotFoundError(id.String())
	}
	delete(s.users, id)
	delete(s.seq, id)
	return nil
}

var _ UserStore = (*MemoryStore)(nil)
