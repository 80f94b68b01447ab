package zone

import "errors"

var (
	ErrInvalid   = errors.New("invalid zone input")
	ErrNotFound  = errors.New("zone not found")
	ErrDuplicate = errors.New("zone already exists")
)
