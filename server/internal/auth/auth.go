package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/database"
)

type contextKey string

const userKey contextKey = "user"

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateID generates a random hex user ID
func GenerateID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Middleware handles session-based authentication
type Middleware struct {
	db         *database.DB
	sessionMgr *scs.SessionManager
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(db *database.DB, sessionMgr *scs.SessionManager) *Middleware {
	return &Middleware{
		db:         db,
		sessionMgr: sessionMgr,
	}
}

// RequireAuth middleware requires a valid session
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessionMgr.GetString(r.Context(), "userID")
		if userID == "" {
			// For HTMX requests, send the client back to the index page
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		user, err := m.db.GetUserByID(userID)
		if err != nil || user == nil {
			m.sessionMgr.Destroy(r.Context())
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser returns the user from context
func GetUser(ctx context.Context) *database.User {
	if user, ok := ctx.Value(userKey).(*database.User); ok {
		return user
	}
	return nil
}
