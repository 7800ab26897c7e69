package redis

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrParseConnString    = errors.New("redis: parse connection string")
	ErrNotReady           = errors.New("redis: not ready within the connect timeout")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
