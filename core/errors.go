package core

import "errors"

var (
	ErrInvalidNonce         = errors.New("invalid or expired nonce")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrInvalidAddress       = errors.New("invalid wallet address")
	ErrInvalidExternalToken = errors.New("invalid external identity token")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrUserNotFound         = errors.New("user not found")
	ErrStorageFailure       = errors.New("storage operation failed")
)
