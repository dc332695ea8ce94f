package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"complaint_portal/internal/client/session"
	"complaint_portal/internal/model"
	"complaint_portal/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewClient(ts.URL, store), store
}

func TestLogin_DecodesRoleAndIdentityFromToken(t *testing.T) {
	token, err := utils.NewJWTUtil("test-secret", 1).GenerateToken(42, model.RoleOfficial)
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "olive@example.com", req.Email)

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"token":   token,
			"user":    map[string]any{"id": 42, "name": "Olive", "email": "olive@example.com", "role": model.RoleOfficial},
		})
	})

	client, _ := newTestClient(t, handler)
	res, err := client.Login(context.Background(), "olive@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, token, res.Token)
	assert.Equal(t, int64(42), res.User.ID)
	assert.Equal(t, model.RoleOfficial, res.User.Role)
	assert.Equal(t, "olive@example.com", res.User.Email)
	assert.Equal(t, "Olive", res.User.Name)
}

func TestLogin_BackendErrorIsNormalized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.Login(context.Background(), "x@example.com", "wrong")

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.False(t, apiErr.IsNetwork())
}

func TestLogin_NetworkFailureIsNormalized(t *testing.T) {
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	client := NewClient("http://127.0.0.1:1", store) // nothing listens here

	_, err = client.Login(context.Background(), "x@example.com", "pw")

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.True(t, apiErr.IsNetwork())
}

func TestBearerToken_AttachedWhenPresent(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"users": []model.User{}})
	})

	client, store := newTestClient(t, handler)
	require.NoError(t, store.Save("tok-xyz", model.SessionUser{ID: 1, Role: model.RoleAdmin}))

	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
}

func TestBearerToken_OmittedWhenAbsent(t *testing.T) {
	var sawHeader bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		// The façade must not short-circuit; the backend's 401 is surfaced
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Authorization header required"})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ListUsers(context.Background())

	assert.False(t, sawHeader)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestListOfficials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/officials", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"officials": []model.User{{ID: 2, Name: "Olive", Email: "o@example.com", Role: model.RoleOfficial}},
		})
	})

	client, _ := newTestClient(t, handler)
	officials, err := client.ListOfficials(context.Background())

	require.NoError(t, err)
	require.Len(t, officials, 1)
	assert.Equal(t, model.RoleOfficial, officials[0].Role)
}

func TestPromoteToOfficial_AlwaysSendsOfficialRole(t *testing.T) {
	var gotBody model.UpdateRoleRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users/9/role", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	client, _ := newTestClient(t, handler)
	require.NoError(t, client.PromoteToOfficial(context.Background(), 9))
	assert.Equal(t, model.RoleOfficial, gotBody.Role)
}

func TestPromoteToOfficial_BadRequestBecomesInvalidRoleTransition(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "role can only be changed to official"})
	})

	client, _ := newTestClient(t, handler)
	err := client.PromoteToOfficial(context.Background(), 9)

	assert.ErrorIs(t, err, ErrInvalidRoleTransition)
}

func TestCurrentUser_ReadsStoreWithoutNetwork(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("CurrentUser must not hit the network")
	})

	client, store := newTestClient(t, handler)
	user, err := client.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, store.Save("tok", model.SessionUser{ID: 4, Role: model.RoleUser, Name: "Casey"}))
	user, err = client.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Casey", user.Name)
}
