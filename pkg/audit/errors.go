package audit

import "errors"

var (
	ErrInvalidEvent = errors.New("audit.invalid_event")
	ErrWriterClosed = errors.New("audit.writer_closed")
	ErrBufferFull   = errors.New("audit.buffer_full")
)
