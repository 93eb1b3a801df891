package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr string
	}{
		{
			name: "valid minimal",
			req:  CreateUserRequest{Name: "Ann", Email: "ann@x.com"},
		},
		{
			name: "valid with all fields",
			req: CreateUserRequest{
				Name:       "Ann",
				Email:      "ann.smith@mail.example.co",
				FatherName: "Joe",
				Occupation: "Engineer",
				College:    "State",
				Address:    "1 Main St",
			},
		},
		{
			name:    "missing name",
			req:     CreateUserRequest{Email: "ann@x.com"},
			wantErr: "Name and Email are required",
		},
		{
			name:    "missing email",
			req:     CreateUserRequest{Name: "Ann"},
			wantErr: "Name and Email are required",
		},
		{
			name:    "whitespace-only name",
			req:     CreateUserRequest{Name: "   ", Email: "ann@x.com"},
			wantErr: "Name and Email are required",
		},
		{
			name:    "email without domain",
			req:     CreateUserRequest{Name: "Ann", Email: "ann@"},
			wantErr: "Please add a valid email",
		},
		{
			name:    "email without tld",
			req:     CreateUserRequest{Name: "Ann", Email: "ann@host"},
			wantErr: "Please add a valid email",
		},
		{
			name:    "email with long tld",
			req:     CreateUserRequest{Name: "Ann", Email: "ann@host.museum"},
			wantErr: "Please add a valid email",
		},
		{
			name:    "email with double dot",
			req:     CreateUserRequest{Name: "Ann", Email: "ann..b@x.com"},
			wantErr: "Please add a valid email",
		},
		{
			name: "email with dotted local part",
			req:  CreateUserRequest{Name: "Ann", Email: "ann.b-c@my-host.co.uk"},
		},
		{
			name: "email surrounded by whitespace is trimmed",
			req:  CreateUserRequest{Name: "Ann", Email: "  ann@x.com  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			var ue *UserError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.wantErr, ue.Message)
		})
	}
}

func TestCreateUserRequest_ToUser(t *testing.T) {
	req := &CreateUserRequest{Name: "Ann", Email: "ann@x.com", Occupation: "Engineer"}
	require.NoError(t, req.Validate())

	user := req.ToUser()

	assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, "Engineer", user.Occupation)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUpdateUserRequest_ApplyTo(t *testing.T) {
	base := func() *User {
		return &User{
			Name:       "Ann",
			Email:      "ann@x.com",
			FatherName: "Joe",
			Occupation: "Student",
			CreatedAt:  time.Now().Add(-time.Hour),
			UpdatedAt:  time.Now().Add(-time.Hour),
		}
	}

	t.Run("non-empty fields overwrite", func(t *testing.T) {
		user := base()
		req := &UpdateUserRequest{Occupation: "Engineer", College: "State"}
		req.ApplyTo(user)

		assert.Equal(t, "Ann", user.Name)
		assert.Equal(t, "ann@x.com", user.Email)
		assert.Equal(t, "Joe", user.FatherName)
		assert.Equal(t, "Engineer", user.Occupation)
		assert.Equal(t, "State", user.College)
	})

	t.Run("empty string does not clear", func(t *testing.T) {
		user := base()
		req := &UpdateUserRequest{FatherName: "", Occupation: "  "}
		req.ApplyTo(user)

		assert.Equal(t, "Joe", user.FatherName)
		assert.Equal(t, "Student", user.Occupation)
	})

	t.Run("updated_at refreshed", func(t *testing.T) {
		user := base()
		createdAt := user.CreatedAt
		before := user.UpdatedAt
		req := &UpdateUserRequest{Name: "Anna"}
		req.ApplyTo(user)

		assert.True(t, user.UpdatedAt.After(before))
		assert.Equal(t, createdAt, user.CreatedAt)
	})
}
