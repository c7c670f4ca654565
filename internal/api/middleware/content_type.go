package middleware

import (
	"mime"
	"net/http"

	"github.com/orderpush/orderpush/internal/api/models"
)

// MaxNotifyBodyBytes caps hook request bodies.
const MaxNotifyBodyBytes = 64 << 10

// ContentTypeJSON defaults the response Content-Type to application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// RequireJSON rejects POST bodies declared as anything other than JSON and
// limits them to maxBytes. A missing Content-Type is accepted since some
// store clients omit it.
func RequireJSON(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			if ct := r.Header.Get("Content-Type"); ct != "" {
				mediaType, _, err := mime.ParseMediaType(ct)
				if err != nil || mediaType != "application/json" {
					models.NewProblem(http.StatusUnsupportedMediaType,
						"Content-Type must be application/json", GetRequestID(r.Context())).Write(w)
					return
				}
			}

			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
