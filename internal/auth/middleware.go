package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tour-booking/internal/logger"
	"tour-booking/internal/models"
)

// Claims is the token payload. Subject carries the stable user id;
// profile fields refresh the stored user on every authenticated request.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

// UserStore is the slice of the persistence layer auth needs.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Middleware verifies HMAC-signed bearer tokens and enforces the admin
// gate on dashboard routes.
type Middleware struct {
	Secret string
	Users  UserStore
	Log    *logger.Logger
}

func NewMiddleware(secret string, users UserStore, log *logger.Logger) *Middleware {
	return &Middleware{Secret: secret, Users: users, Log: log}
}

// IssueToken signs a token for the identity, used by the seed tool and
// tests. Expiry is fixed at 24 hours.
func (m *Middleware) IssueToken(id Identity) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Picture:   id.ProfileImageURL,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.Secret))
}

func (m *Middleware) parseToken(raw string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(m.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}
	return &Identity{
		UserID:          claims.Subject,
		Email:           claims.Email,
		FirstName:       claims.FirstName,
		LastName:        claims.LastName,
		ProfileImageURL: claims.Picture,
	}, nil
}

// Authenticate attaches the caller identity when a valid bearer token is
// present. Anonymous requests pass through untouched; a token that fails
// verification is rejected outright rather than downgraded to anonymous.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id, err := m.parseToken(raw)
		if err != nil {
			m.Log.LogSecurity("AUTH", fmt.Sprintf("Rejected token: %v", err))
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// First authenticated contact creates the user row; later ones
		// refresh the profile fields.
		_, err = m.Users.UpsertUser(r.Context(), &models.User{
			ID:              id.UserID,
			Email:           id.Email,
			FirstName:       id.FirstName,
			LastName:        id.LastName,
			ProfileImageURL: id.ProfileImageURL,
		})
		if err != nil {
			m.Log.Error("AUTH", fmt.Sprintf("Failed to upsert user %s: %v", id.UserID, err))
			writeAuthError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}

// RequireUser rejects anonymous requests with 401.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin distinguishes the two failure modes: no identity is 401,
// an identity without the admin flag is 403.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := m.Users.GetUser(r.Context(), id.UserID)
		if err != nil {
			m.Log.Error("AUTH", fmt.Sprintf("Failed to load user %s: %v", id.UserID, err))
			writeAuthError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil || !user.IsAdmin {
			m.Log.LogSecurity("ADMIN", fmt.Sprintf("User %s denied admin access", id.UserID))
			writeAuthError(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
