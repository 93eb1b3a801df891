package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rosterd/rosterd/internal/registry"
)

// newTestServer runs the real handlers over the in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	handlers := registry.NewHandlers(registry.NewService(registry.NewMemoryStore(), logger), logger)

	router := gin.New()
	handlers.RegisterRoutes(router.Group("/api"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, New(server.URL)
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, c := newTestServer(t)

	created, err := c.CreateUser(ctx, &registry.CreateUserRequest{
		Name:       "Ann",
		Email:      "ann@x.com",
		Occupation: "Student",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, created.ID, users[0].ID)
	assert.Equal(t, "Ann", users[0].Name)
	assert.Equal(t, "Student", users[0].Occupation)

	updated, err := c.UpdateUser(ctx, created.ID, &registry.UpdateUserRequest{Occupation: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.Name)
	assert.Equal(t, "Engineer", updated.Occupation)

	require.NoError(t, c.DeleteUser(ctx, created.ID))

	users, err = c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClient_APIErrors(t *testing.T) {
	ctx := context.Background()
	_, c := newTestServer(t)

	t.Run("validation failure carries server message", func(t *testing.T) {
		_, err := c.CreateUser(ctx, &registry.CreateUserRequest{Name: "Ann"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "Name and Email are required", apiErr.Message)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := c.CreateUser(ctx, &registry.CreateUserRequest{Name: "Ann", Email: "dup@x.com"})
		require.NoError(t, err)

		_, err = c.CreateUser(ctx, &registry.CreateUserRequest{Name: "Bob", Email: "dup@x.com"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "User already exists", apiErr.Message)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := c.DeleteUser(ctx, uuid.New())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "User not found", apiErr.Message)
	})

	t.Run("unreachable server", func(t *testing.T) {
		dead := New("http://127.0.0.1:1")
		_, err := dead.ListUsers(ctx)
		require.Error(t, err)

		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}
