package progress

import "errors"

// ErrUserKeyRequired is returned when a read or write has no user email.
var ErrUserKeyRequired = errors.New("user email required")
