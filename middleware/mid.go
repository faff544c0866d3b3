package middleware

import (
	"pasteleria-api/internal/auth"
)

// Mid bundles the auth keys the middlewares need.
type Mid struct {
	keys *auth.Keys
}

func NewMid(keys *auth.Keys) *Mid {
	return &Mid{keys: keys}
}
