package employee

import "errors"

var (
	ErrMissingEmployeeID = errors.New("employee USERID is missing")
	ErrEmptyPayload      = errors.New("webhook payload has no USERSB record")
)
