package httpapi

import (
	"context"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"html"
	"net/http"
	"sync"
)

type loggerKey struct{}

// logRequests tags each request with a fresh request id and logs its
// outcome once served.
func (svc *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := svc.cfg.Clock.Now()
		reqID := uuid.New().String()
		w.Header().Set("X-Request-Id", reqID)

		logger := svc.cfg.Logger.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), loggerKey{}, logger)))

		logger.WithFields(logrus.Fields{
			"status":   rec.status,
			"duration": svc.cfg.Clock.Now().Sub(start).String(),
		}).Debug("served request")
	})
}

func requestLogger(r *http.Request, fallback *logrus.Entry) *logrus.Entry {
	if logger, ok := r.Context().Value(loggerKey{}).(*logrus.Entry); ok {
		return logger
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// nameSanitizer rejects names that contain markup.
type nameSanitizer struct {
	// bluemonday policies are not thread-safe, so each check borrows one
	// from the pool.
	policyPool sync.Pool
}

func newNameSanitizer() *nameSanitizer {
	return &nameSanitizer{
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// Clean reports whether every name survives the strict policy unchanged.
// The policy escapes characters such as '&' and quotes, so its output is
// unescaped before comparing.
func (s *nameSanitizer) Clean(names ...string) bool {
	policy := s.policyPool.Get().(*bluemonday.Policy)
	defer s.policyPool.Put(policy)

	for _, name := range names {
		if html.UnescapeString(policy.Sanitize(name)) != name {
			return false
		}
	}
	return true
}
