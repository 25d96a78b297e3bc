package jwt

import (
	"context"
	"time"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claim names read from identity provider tokens.
const (
	ClaimUsername      = "username"
	ClaimGroups        = "groups"
	ClaimCognitoGroups = "cognito:groups"
	ClaimType          = "type"
	ClaimEmployeeID    = "employee_id"

	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

type Service interface {
	GenerateAccessToken(identity auth.Identity) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken mints a token shaped like the identity provider's.
// Used for local development and tests.
func (j *JWTService) GenerateAccessToken(identity auth.Identity) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	groups := identity.Groups
	if groups == nil {
		groups = []string{}
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":         uuid.NewString(),
		ClaimUsername: identity.Username,
		ClaimGroups:   groups,
		ClaimType:     TokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":           uuid.NewString(),
		ClaimEmployeeID: employeeID,
		ClaimType:       TokenTypeSSE,
		"exp":           expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the employee ID
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get(ClaimType)
	if !ok || tokenType != TokenTypeSSE {
		return "", jwt.ErrInvalidJWT()
	}

	employeeIDVal, ok := token.Get(ClaimEmployeeID)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	employeeID, ok = employeeIDVal.(string)
	if !ok || employeeID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return employeeID, nil
}

// IdentityFromContext reads the verified token placed on ctx by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (auth.Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims builds an identity from decoded token claims. Groups are
// taken from "groups" or, failing that, "cognito:groups".
func IdentityFromClaims(claims map[string]interface{}) (auth.Identity, error) {
	username, ok := claims[ClaimUsername].(string)
	if !ok || username == "" {
		return auth.Identity{}, auth.ErrMissingUsername
	}

	groups := stringSlice(claims[ClaimGroups])
	if groups == nil {
		groups = stringSlice(claims[ClaimCognitoGroups])
	}

	return auth.Identity{Username: username, Groups: groups}, nil
}

func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
