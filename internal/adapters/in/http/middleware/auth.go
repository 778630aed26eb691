// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	usecase "localix/internal/application/usecase"
)

// FirebaseAuthClient aliases the firebase auth client so callers depend on
// this package, not on the SDK.
type FirebaseAuthClient = fbauth.Client

// AuthMiddleware verifies "Authorization: Bearer <ID_TOKEN>" and injects the
// actor identity into the request context. Health checks bypass it in the
// router, everything else requires a valid token.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		actor := usecase.Actor{UID: uid}
		if v, ok := token.Claims["email"]; ok {
			if e, ok2 := v.(string); ok2 {
				actor.Email = strings.TrimSpace(e)
			}
		}
		if v, ok := token.Claims["name"]; ok {
			if n, ok2 := v.(string); ok2 {
				actor.Name = strings.TrimSpace(n)
			}
		}

		next.ServeHTTP(w, r.WithContext(usecase.WithActor(r.Context(), actor)))
	})
}
