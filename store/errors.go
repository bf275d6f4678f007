package store

import "errors"

var (
	ErrNoIdentity    = errors.New("no signed-in identity")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoChanges     = errors.New("nothing to update")
	ErrNotFound      = errors.New("not found")
	ErrNoEmail       = errors.New("no email address on record")
	ErrInviteInvalid = errors.New("invite is invalid, used or expired")
)
