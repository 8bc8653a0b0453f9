package diary

import "errors"

var (
	ErrNotFound       = errors.New("diary entry not found")
	ErrValidation     = errors.New("diary entry failed validation")
	ErrInvalidBearing = errors.New("bearing is not valid DMS text")
	ErrNotAuthor      = errors.New("not the author of this entry")
)
