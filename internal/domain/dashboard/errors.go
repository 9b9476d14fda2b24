package dashboard

import "errors"

var (
	ErrInvalidDays  = errors.New("days must be between 1 and 366")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)
