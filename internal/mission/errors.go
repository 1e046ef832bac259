package mission

import "errors"

var (
	ErrHandleRequired = errors.New("handle is required")
	ErrNotIntro       = errors.New("mission already launched")
)
