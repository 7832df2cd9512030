package tools

import "errors"

var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrAlreadyRegistered = errors.New("tool already registered")
	ErrEmptyName         = errors.New("tool name is empty")
)
