package mddiff

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when the new side of a comparison is not a
	// document. It's the only error the comparison itself can produce
	ErrInvalidInput = errors.New("invalid input: expected a document")
	// ErrDecode indicates encoded data couldn't be turned into a document tree
	ErrDecode = errors.New("decoding document")
	// ErrEncode indicates a document couldn't be written in the requested format
	ErrEncode = errors.New("encoding document")
)
