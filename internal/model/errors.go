package model

import "errors"

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidEmail = errors.New("please enter a valid email address")
)
