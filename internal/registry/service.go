package registry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the UserService interface
type Service struct {
	store  UserStore
	logger *zap.Logger
}

// NewService creates a new user registration service
func NewService(store UserStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Register validates the payload, checks for an existing registration with the
// same email, and persists a new user with server-assigned id and timestamps.
//
// The check-then-insert sequence is not atomic across concurrent callers; the
// unique constraint on users.email converts the losing insert into a
// duplicate error instead of a silent second record.
func (s *Service) Register(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, NewDuplicateUserError(req.Email)
	}

	user := req.ToUser()
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("id", user.ID.String()),
		zap.String("email", user.Email))
	return user, nil
}

// List returns all registered users, newest first. An empty registry yields
// an empty slice, not an error.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.ListUsers(ctx)
}

// Update applies a partial payload to the user with the given id. Fields that
// are absent or empty in the payload keep their stored values. The email is
// not re-validated for format or uniqueness on update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(user)

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("id", user.ID.String()))
	return user, nil
}

// Delete removes the user with the given id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("id", id.String()))
	return nil
}

var _ UserService = (*Service)(nil)
