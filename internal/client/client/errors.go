package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrBadRequest  = errors.New("request rejected by server")
	ErrServer      = errors.New("server error")
	ErrShortRead   = errors.New("file shorter than reported size")
)
