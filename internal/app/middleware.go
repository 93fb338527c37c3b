package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/auth"
	"github.com/gestfin/gestfin/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var publicPaths = map[string]bool{
	"/api/auth/register": true,
	"/api/auth/login":    true,
	"/api/auth/refresh":  true,
	"/api/auth/logout":   true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {
	r.Use(requestLogger)
	r.Use(authenticate(deps.AuthManager))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		log.Debugf("%s %s %s", req.Method, req.URL.Path, time.Since(start))
	})
}

// authenticate resolves the bearer token of every /api request outside the
// auth endpoints and puts its user in the request context.
func authenticate(manager *auth.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if publicPaths[req.URL.Path] || !strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}
			token, ok := auth.TokenFromRequest(req)
			if !ok {
				rest.WriteError(w, http.StatusUnauthorized, "missing token")
				return
			}
			u, err := manager.Authenticate(req.Context(), token)
			if err != nil {
				log.Debugf("authentication failed: %v", err)
				rest.WriteError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), *u)))
		})
	}
}
