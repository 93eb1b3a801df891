package registry

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// emailPattern is deliberately loose and not RFC-compliant. It accepts
// local parts and domain segments of word characters optionally separated by
// single '.' or '-', with a 2-3 character final segment. Known limitation,
// kept for compatibility with the existing registration contract.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// User represents a registered person. Email is unique across all records.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Email      string    `bun:"email,notnull,unique" json:"email"`
	FatherName string    `bun:"father_name" json:"fatherName"`
	Occupation string    `bun:"occupation" json:"occupation"`
	College    string    `bun:"college" json:"college"`
	Address    string    `bun:"address" json:"address"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// UserIndexes are created alongside the users table.
var UserIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)`,
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at DESC)`,
}

// CreateUserRequest represents a request to register a new user
type CreateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	FatherName string `json:"fatherName"`
	Occupation string `json:"occupation"`
	College    string `json:"college"`
	Address    string `json:"address"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.FatherName = strings.TrimSpace(r.FatherName)
	r.Occupation = strings.TrimSpace(r.Occupation)
	r.College = strings.TrimSpace(r.College)
	r.Address = strings.TrimSpace(r.Address)
}

// Validate checks the request after normalization. Optional fields are not
// validated beyond trimming.
func (r *CreateUserRequest) Validate() error {
	r.Normalize()

	if r.Name == "" || r.Email == "" {
		return NewMissingFieldError()
	}
	if !emailPattern.MatchString(r.Email) {
		return NewInvalidEmailError(r.Email)
	}
	return nil
}

// ToUser converts the request to a User with server-assigned id and timestamps.
func (r *CreateUserRequest) ToUser() *User {
	now := time.Now()
	return &User{
		ID:         uuid.New(),
		Name:       r.Name,
		Email:      r.Email,
		FatherName: r.FatherName,
		Occupation: r.Occupation,
		College:    r.College,
		Address:    r.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UpdateUserRequest carries a partial payload: a field that is absent or empty
// after trimming leaves the stored value unchanged. An explicitly empty string
// therefore cannot clear a field.
type UpdateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	FatherName string `json:"fatherName"`
	Occupation string `json:"occupation"`
	College    string `json:"college"`
	Address    string `json:"address"`
}

// ApplyTo overwrites non-empty fields of user and refreshes UpdatedAt.
// Email format and uniqueness are not re-checked on update.
func (r *UpdateUserRequest) ApplyTo(user *User) {
	if v := strings.TrimSpace(r.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(r.Email); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(r.FatherName); v != "" {
		user.FatherName = v
	}
	if v := strings.TrimSpace(r.Occupation); v != "" {
		user.Occupation = v
	}
	if v := strings.TrimSpace(r.College); v != "" {
		user.College = v
	}
	if v := strings.TrimSpace(r.Address); v != "" {
		user.Address = v
	}
	user.UpdatedAt = time.Now()
}
