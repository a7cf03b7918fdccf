package response

import (
	"net/http"

	appctx "github.com/buildmaster/projecttracker/services/identity-service/internal/pkg/context"
)

// RequestIDFromContext returns the request ID set by the request_id middleware.
func RequestIDFromContext(r *http.Request) string {
	return appctx.GetRequestID(r.Context())
}
