package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/postgres"
)

// PostgresStore implements UserStore on PostgreSQL. It holds the lazy
// connection handle rather than an open *bun.DB so that the first request
// establishes the connection and a failed attempt is retried on the next one.
type PostgresStore struct {
	conn *postgres.Conn
}

// NewPostgresStore creates a new PostgreSQL user store
func NewPostgresStore(conn *postgres.Conn) *PostgresStore {
	return &PostgresStore{conn: conn}
}

// CreateTables creates the users table and its indexes if they do not exist
func (s *PostgresStore) CreateTables(ctx context.Context) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	for _, indexSQL := range UserIndexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index with SQL %q: %w", indexSQL, err)
		}
	}

	return nil
}

// CreateUser persists a new user. A unique-constraint violation on email is
// surfaced as a duplicate error; this is the storage-layer backstop for
// concurrent registrations that both pass the existence check.
func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return NewStoreError("connect to store", err)
	}

	_, err = db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return NewDuplicateUserError(user.Email)
		}
		return NewStoreError("create user", err)
	}
	return nil
}

// GetUser retrieves a user by id
func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, NewStoreError("connect to store", err)
	}

	user := &User{}
	err = db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(id.String())
		}
		return nil, NewStoreError("get user", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, NewStoreError("connect to store", err)
	}

	user := &User{}
	err = db.NewSelect().Model(user).Where("email = ?", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(email)
		}
		return nil, NewStoreError("get user by email", err)
	}
	return user, nil
}

// ListUsers retrieves all users, newest first
func (s *PostgresStore) ListUsers(ctx context.Context) ([]*User, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, NewStoreError("connect to store", err)
	}

	users := make([]*User, 0)
	err = db.NewSelect().
		Model(&users).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, NewStoreError("list users", err)
	}
	return users, nil
}

// UpdateUser updates an existing user in storage
func (s *PostgresStore) UpdateUser(ctx context.Context, user *User) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return NewStoreError("connect to store", err)
	}

	result, err := db.NewUpdate().Model(user).Where("id = ?", user.ID).Exec(ctx)
	if err != nil {
		return NewStoreError("update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return NewStoreError("update user", err)
	}
	if rowsAffected == 0 {
		return NewUserNotFoundError(user.ID.String())
	}
	return nil
}

// DeleteUser removes a user from storage
func (s *PostgresStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return NewStoreError("connect to store", err)
	}

	result, err := db.NewDelete().Model((*User)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return NewStoreError("delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return NewStoreError("delete user", err)
	}
	if rowsAffected == 0 {
		return NewUserNotFoundError(id.String())
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "users_email_key") ||
		strings.Contains(err.Error(), "idx_users_email")
}

var _ UserStore = (*PostgresStore)(nil)
