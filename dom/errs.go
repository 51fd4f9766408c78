package dom

import "errors"

var (
	ErrNotFound    = errors.New("node not found")
	ErrBadSelector = errors.New("bad selector")
)
