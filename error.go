package grip

import "errors"

var (
	ErrUseAfterMove     = errors.New("use after move")
	ErrCopyNotSupported = errors.New("copy not supported")
)
