package contact

import "errors"

var (
	ErrNameRequired    = errors.New("name is required")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrMessageRequired = errors.New("message is required")
	ErrMessageNotFound = errors.New("message not found")
)
