// Package health provides liveness and readiness HTTP handlers.
//
// Liveness always answers "ALIVE". Readiness runs a list of checks and
// answers 503 on the first failure, logging the error. Any
// func(context.Context) error is a check, so redis.Healthcheck plugs in
// directly.
package health
