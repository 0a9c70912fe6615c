package employee

import "errors"

var (
	ErrInvalidCode       = errors.New("employee: invalid code")
	ErrInvalidName       = errors.New("employee: invalid name")
	ErrInvalidRole       = errors.New("employee: invalid role")
	ErrBlankPassword     = errors.New("employee: password must not be blank")
	ErrEmployeeNotFound  = errors.New("employee: not found")
	ErrCodeAlreadyExists = errors.New("employee: code already exists")
	ErrSelfDelete        = errors.New("employee: cannot delete the logged-in employee")
	ErrActorRequired     = errors.New("employee: acting employee is required")
)
