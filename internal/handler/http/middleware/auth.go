package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts verified tokens that name a user. Tokens minted for
// event streams are rejected; identity provider tokens carry no type claim.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if tokenType, ok := claims[jwt.ClaimType]; ok && tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if _, err := jwt.IdentityFromClaims(claims); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
