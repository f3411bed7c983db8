package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// AccessLoggingHandler logs general access notes about a request, plus
// sets up an ID in the context for other methods to use for logging.
func AccessLoggingHandler(prefix, requestIDHeader string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()

		requestID := uuid.New().String()
		r = WithValue(r, ContextRequestIDKey, requestID)
		if requestIDHeader != "" {
			w.Header().Set(requestIDHeader, requestID)
		}

		l := &responseLogger{w: w}
		handler.ServeHTTP(l, r)

		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"uri":      r.URL.RequestURI(),
			"remote":   r.RemoteAddr,
			"status":   l.Status(),
			"size":     l.Size(),
			"duration": time.Since(t).String(),
		}).Infof("%s [req %s] [access]", prefix, requestID)
	})
}

// AccessLoggingRouter wraps all Handle calls in an AccessLoggingHandler.
type AccessLoggingRouter struct {
	prefix          string
	requestIDHeader string
	router          Router
}

// Handle wraps the handler in an AccessLoggingHandler for the router.
func (l *AccessLoggingRouter) Handle(pattern string, handler http.Handler) *mux.Route {
	return l.router.Handle(pattern, AccessLoggingHandler(l.prefix, l.requestIDHeader, handler))
}

// NewAccessLoggingRouter wraps the router.
func NewAccessLoggingRouter(prefix, requestIDHeader string, router Router) *AccessLoggingRouter {
	return &AccessLoggingRouter{prefix: prefix, requestIDHeader: requestIDHeader, router: router}
}

type responseLogger struct {
	w      http.ResponseWriter
	status int
	size   int
}

func (l *responseLogger) Header() http.Header {
	return l.w.Header()
}

func (l *responseLogger) Write(b []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}
	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *responseLogger) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func (l *responseLogger) Status() int {
	if l.status == 0 {
		return http.StatusOK
	}
	return l.status
}

func (l *responseLogger) Size() int {
	return l.size
}
