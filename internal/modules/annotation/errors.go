package annotation

import "errors"

var (
	ErrNotFound   = errors.New("annotation not found")
	ErrValidation = errors.New("annotation failed validation")
	ErrNotCreator = errors.New("not the creator of this annotation")
)
