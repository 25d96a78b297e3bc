package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrMissingUsername       = errors.New("token has no username claim")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrEmployeeNotLinked     = errors.New("signed-in user is not linked to an employee")
)
