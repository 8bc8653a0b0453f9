package project

import "errors"

var (
	ErrNotFound       = errors.New("project not found")
	ErrValidation     = errors.New("validation error")
	ErrDuplicateTitle = errors.New("a project with this title already exists")
	ErrForbidden      = errors.New("not allowed to access this project")
)
