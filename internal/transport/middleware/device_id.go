package middleware

import (
	"net/http"

	"github.com/ovenlight/prepstock-backend/pkg/ctxutil"
)

// deviceIDHeader carries the originating tablet's identifier.
const deviceIDHeader = "X-Device-Id"

// DeviceID propagates the tablet's X-Device-Id header onto the context so
// sync operations can be attributed to the device that produced them.
func DeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(deviceIDHeader); id != "" {
			r = r.WithContext(ctxutil.WithDeviceID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
