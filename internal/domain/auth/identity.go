package auth

import "github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"

// ManagersGroup is the default group whose members may search work logs.
const ManagersGroup = "managers"

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	Username string
	Groups   []string
}

// InGroup reports whether the identity belongs to group.
func (i Identity) InGroup(group string) bool {
	return validator.IsInSlice(group, i.Groups)
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
