package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-booking/internal/auth"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
)

type fakeUserStore struct {
	users    map[string]*models.User
	upserted []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, ok := f.users[user.ID]
	if ok {
		existing.Email = user.Email
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.ProfileImageURL = user.ProfileImageURL
	} else {
		f.users[user.ID] = user
	}
	f.upserted = append(f.upserted, user.ID)
	return f.users[user.ID], nil
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthenticateAnonymousPassesThrough(t *testing.T) {
	store := newFakeUserStore()
	mw := auth.NewMiddleware("test-secret", store, logger.Discard())

	handler, called := okHandler()
	rec := httptest.NewRecorder()
	mw.Authenticate(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tours", nil))

	assert.True(t, *called)
	assert.Empty(t, store.upserted)
}

func TestAuthenticateValidTokenAttachesIdentityAndUpserts(t *testing.T) {
	store := newFakeUserStore()
	mw := auth.NewMiddleware("test-secret", store, logger.Discard())

	token, err := mw.IssueToken(auth.Identity{
		UserID: "user-1", Email: "kai@example.com", FirstName: "Kai",
	})
	require.NoError(t, err)

	var got *auth.Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		require.True(t, ok)
		got = id
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Authenticate(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "kai@example.com", got.Email)
	assert.Equal(t, []string{"user-1"}, store.upserted)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	store := newFakeUserStore()
	mw := auth.NewMiddleware("test-secret", store, logger.Discard())

	handler, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	mw.Authenticate(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthenticateRejectsTokenSignedWithOtherSecret(t *testing.T) {
	store := newFakeUserStore()
	other := auth.NewMiddleware("other-secret", store, logger.Discard())
	token, err := other.IssueToken(auth.Identity{UserID: "user-1"})
	require.NoError(t, err)

	mw := auth.NewMiddleware("test-secret", store, logger.Discard())
	handler, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Authenticate(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireUser(t *testing.T) {
	store := newFakeUserStore()
	mw := auth.NewMiddleware("test-secret", store, logger.Discard())

	handler, called := okHandler()
	rec := httptest.NewRecorder()
	mw.RequireUser(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAdminDistinguishes401From403(t *testing.T) {
	store := newFakeUserStore()
	store.users["admin-1"] = &models.User{ID: "admin-1", IsAdmin: true}
	store.users["user-1"] = &models.User{ID: "user-1"}
	mw := auth.NewMiddleware("test-secret", store, logger.Discard())

	run := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		if userID != "" {
			token, err := mw.IssueToken(auth.Identity{UserID: userID})
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler, _ := okHandler()
		mw.Authenticate(mw.RequireAdmin(handler)).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, run("").Code)
	assert.Equal(t, http.StatusForbidden, run("user-1").Code)
	assert.Equal(t, http.StatusOK, run("admin-1").Code)
}

func TestRequireAdminUnknownUserForbidden(t *testing.T) {
	store := newFakeUserStore()
	mw := auth.NewMiddleware("test-secret", store, logger.Discard())

	token, err := mw.IssueToken(auth.Identity{UserID: "ghost"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler, called := okHandler()
	mw.Authenticate(mw.RequireAdmin(handler)).ServeHTTP(rec, req)

	// Authenticate upserts the user, so RequireAdmin sees a non-admin row.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)
}
