package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "request_id"
)

// User is the authenticated caller taken from the bearer token.
type User struct {
	ID      int64
	IsStaff bool
}

type Claims struct {
	UserID  int64 `json:"user_id"`
	IsStaff bool  `json:"is_staff"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for userID.
func NewToken(secret []byte, userID int64, isStaff bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsStaff: isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// AuthMiddleware validates an optional "Authorization: Bearer" token. Requests
// without a token continue anonymously; requests with an invalid one are rejected.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized", "authorization header must be a bearer token")
				return
			}

			claims := &Claims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				code := "invalid_token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					code = "token_expired"
				}
				respondError(w, http.StatusUnauthorized, code, "invalid authentication token")
				return
			}
			if claims.UserID <= 0 {
				respondError(w, http.StatusUnauthorized, "invalid_token", "token has no user_id")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, User{ID: claims.UserID, IsStaff: claims.IsStaff})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFromContext(r.Context()); !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "authentication credentials were not provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects requests not made by a staff user.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "authentication credentials were not provided")
			return
		}
		if !user.IsStaff {
			respondError(w, http.StatusForbidden, "permission_denied", "you do not have permission to perform this action")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StaffOrReadOnly lets safe methods through and requires staff for the rest.
func StaffOrReadOnly(next http.Handler) http.Handler {
	staff := RequireStaff(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			staff.ServeHTTP(w, r)
		}
	})
}

// RequestIDMiddleware echoes the request id back in X-Request-ID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = r.Header.Get("X-Request-ID")
		}
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	return user, ok
}

func withUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
