package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterd/rosterd/internal/registry"
)

// DefaultPollInterval is how often the watcher re-fetches the user list.
const DefaultPollInterval = 5 * time.Second

// ListWatcher keeps a periodically refreshed snapshot of the user list. Each
// poll replaces the snapshot wholesale; cycles are fire-and-forget relative to
// the ticker and are not serialized against each other.
type ListWatcher struct {
	client   *Client
	interval time.Duration
	logger   *zap.Logger

	mu    sync.RWMutex
	users []*registry.User
}

// NewListWatcher creates a watcher polling at the given interval. A zero or
// negative interval falls back to DefaultPollInterval.
func NewListWatcher(client *Client, interval time.Duration, logger *zap.Logger) *ListWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &ListWatcher{
		client:   client,
		interval: interval,
		logger:   logger,
	}
}

// Run fetches immediately, then on every tick until ctx is cancelled.
func (w *ListWatcher) Run(ctx context.Context) {
	w.Refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh fetches the list once and replaces the snapshot. A failed fetch
// leaves the previous snapshot in place; the next cycle retries.
func (w *ListWatcher) Refresh(ctx context.Context) {
	users, err := w.client.ListUsers(ctx)
	if err != nil {
		w.logger.Warn("failed to refresh user list", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.users = users
	w.mu.Unlock()
}

// Users returns the current snapshot.
func (w *ListWatcher) Users() []*registry.User {
	w.mu.RLock()
	defer w.mu.RUnlock()

	users := make([]*registry.User, len(w.users))
	copy(users, w.users)
	return users
}

// EditDraft returns an update payload pre-populated from the snapshot copy of
// the selected user. It is a point-in-time snapshot, not a live binding:
// server-side changes made while editing are overwritten on save.
func (w *ListWatcher) EditDraft(id uuid.UUID) (*registry.UpdateUserRequest, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, user := range w.users {
		if user.ID == id {
			return &registry.UpdateUserRequest{
				Name:       user.Name,
				Email:      user.Email,
				FatherName: user.FatherName,
				Occupation: user.Occupation,
				College:    user.College,
				Address:    user.Address,
			}, true
		}
	}
	return nil, false
}

// Save submits an edit draft and refreshes the snapshot.
func (w *ListWatcher) Save(ctx context.Context, id uuid.UUID, draft *registry.UpdateUserRequest) (*registry.User, error) {
	user, err := w.client.UpdateUser(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	w.Refresh(ctx)
	return user, nil
}

// Delete removes a user after the confirm callback approves it, then
// refreshes the snapshot.
func (w *ListWatcher) Delete(ctx context.Context, id uuid.UUID, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}

	if err := w.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	w.Refresh(ctx)
	return nil
}
