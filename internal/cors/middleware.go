package cors

import (
	"net/http"

	corsutil "github.com/NYCU-SDC/summer/pkg/cors"
	"go.uber.org/zap"
)

// ExposeHeaders are readable by browser code on cross-origin responses.
// Content-Disposition carries the filename of response exports.
const ExposeHeaders = "Content-Disposition"

type Middleware struct {
	logger       *zap.Logger
	allowOrigins []string
}

func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	return &Middleware{
		logger:       logger,
		allowOrigins: allowOrigins,
	}
}

// HandlerFunc applies summer's CORS policy and exposes the export filename.
func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	handler := corsutil.CORSMiddleware(next, m.logger, m.allowOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" {
			w.Header().Set("Access-Control-Expose-Headers", ExposeHeaders)
		}
		handler(w, r)
	}
}
