package httpserver

import "errors"

var (
	ErrStart    = errors.New("httpserver.start_failed")
	ErrShutdown = errors.New("httpserver.shutdown_failed")
	ErrReload   = errors.New("httpserver.reload_failed")
	ErrNotReady = errors.New("httpserver.not_ready")
)
