package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/ovenlight/prepstock-backend/pkg/ctxutil"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id for log correlation. A
// caller-supplied X-Request-Id is kept as-is so a tablet can trace its
// own calls; otherwise one is generated. The id goes into the context
// and is echoed back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}
