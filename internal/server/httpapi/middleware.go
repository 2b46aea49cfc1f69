package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/server/authz"
)

type ctxKey int

const callerKey ctxKey = iota

// withCaller resolves the session cookie once per request and attaches the
// resulting caller to the request context. No cookie, an unknown token or an
// expired session all mean an anonymous request, not an error; the guards on
// individual operations decide whether anonymity is acceptable.
func (s *Server) withCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		view, err := s.auth.Current(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, common.ErrUnauthenticated) {
				next.ServeHTTP(w, r)
				return
			}
			s.writeError(r.Context(), w, err)
			return
		}

		caller := &authz.Caller{
			ID:            view.ID,
			IsAdmin:       view.IsAdmin,
			AdminElevated: view.AdminElevated,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	})
}

// callerFrom returns the caller attached by withCaller, nil for anonymous
// requests.
func callerFrom(r *http.Request) *authz.Caller {
	c, _ := r.Context().Value(callerKey).(*authz.Caller)
	return c
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
