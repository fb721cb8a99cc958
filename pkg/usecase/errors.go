package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrInvalidSession = goerr.New("invalid session token")
)

// Context keys for error values
const (
	AccessLevelKey = "access_level"
)
