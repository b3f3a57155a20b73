// internal/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adlift/adcampaign-backend/internal/model"
	"github.com/adlift/adcampaign-backend/internal/repository"
)

// Requester identifies the authenticated user behind a request. It is always
// carried explicitly in the request context, never in package state.
type Requester struct {
	UserID int
}

type requesterKey struct{}

// WithRequester returns a context carrying the requester.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFrom extracts the requester injected by the middleware.
func RequesterFrom(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(requesterKey{}).(Requester)
	return r, ok
}

// sessionClaims is the JWT payload for a logged-in session.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// MintSessionToken issues an HS256 session token for userID.
func MintSessionToken(secret []byte, userID int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseSessionToken validates a session token and returns the requester.
func ParseSessionToken(secret []byte, token string) (Requester, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return Requester{}, err
	}
	if claims.UserID <= 0 {
		return Requester{}, fmt.Errorf("session token missing user_id")
	}
	return Requester{UserID: claims.UserID}, nil
}

// Middleware authenticates the bearer token and injects the requester into
// the request context. Requests without a valid token never reach a handler.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			requester, err := ParseSessionToken(secret, token)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), requester)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized"}`))
}

// GoogleProfile is the subset of an OAuth profile this service keeps.
type GoogleProfile struct {
	ID          string
	DisplayName string
	Email       string
}

// ResolveOrCreateUser looks a user up by their Google profile ID, creating
// the record on first login. Called by the OAuth callback, not by request
// handlers.
func ResolveOrCreateUser(repo repository.UserRepositoryInterface, profile GoogleProfile) (*model.User, error) {
	user, err := repo.GetByGoogleID(profile.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &model.User{
		GoogleID:    profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	}
	if err := repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
