package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
)

// RequireGroup requires membership in group
func RequireGroup(group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := jwt.IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !identity.InGroup(group) {
				response.HandleError(w, auth.ErrManagerAccessRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
