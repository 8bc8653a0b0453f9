package photo

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrNotFound        = errors.New("photo not found")
	ErrNotOwner        = errors.New("not the uploader of this photo")
)
