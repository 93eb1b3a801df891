package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rosterd/rosterd/internal/registry"
)

// Field names a registration form input.
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldFatherName Field = "fatherName"
	FieldOccupation Field = "occupation"
	FieldCollege    Field = "college"
	FieldAddress    Field = "address"
)

// Status reflects the outcome of the last submit attempt.
type Status struct {
	Success bool
	Message string
}

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not finished.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// RegistrationForm holds a mutable draft of the registration fields. A
// successful submit clears the draft; a failed one keeps it so the user can
// correct and resubmit.
type RegistrationForm struct {
	client *Client

	mu         sync.Mutex
	draft      registry.CreateUserRequest
	submitting bool
	status     Status
}

// NewRegistrationForm creates an empty form bound to the given client.
func NewRegistrationForm(client *Client) *RegistrationForm {
	return &RegistrationForm{client: client}
}

// Set updates a single draft field. Unknown fields are ignored.
func (f *RegistrationForm) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldEmail:
		f.draft.Email = value
	case FieldFatherName:
		f.draft.FatherName = value
	case FieldOccupation:
		f.draft.Occupation = value
	case FieldCollege:
		f.draft.College = value
	case FieldAddress:
		f.draft.Address = value
	}
}

// Draft returns a copy of the current draft.
func (f *RegistrationForm) Draft() registry.CreateUserRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Status returns the outcome of the last submit.
func (f *RegistrationForm) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Submit sends the draft as a create request. While a submission is
// outstanding further submits are rejected.
func (f *RegistrationForm) Submit(ctx context.Context) (*registry.User, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	f.submitting = true
	req := f.draft
	f.mu.Unlock()

	user, err := f.client.CreateUser(ctx, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		// keep the draft so the user can correct it
		f.status = Status{Success: false, Message: submitFailureMessage(err)}
		return nil, err
	}

	f.draft = registry.CreateUserRequest{}
	f.status = Status{Success: true, Message: "User registered successfully!"}
	return user, nil
}

func submitFailureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Failed to connect to server"
}
