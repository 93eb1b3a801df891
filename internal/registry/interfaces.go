package registry

import (
	"context"

	"github.com/google/uuid"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserService defines the interface for user registration operations
type UserService interface {
	Register(ctx context.Context, req *CreateUserRequest) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
