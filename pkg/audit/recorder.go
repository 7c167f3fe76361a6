package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// Recorder completes events with request context and writes them.
type Recorder struct {
	w         Writer
	subject   func(context.Context) string
	requestID func(context.Context) string
	ip        func(context.Context) string
	now       func() time.Time
	log       *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSubjectExtractor fills Event.Subject from the context.
func WithSubjectExtractor(fn func(context.Context) string) RecorderOption {
	return func(r *Recorder) { r.subject = fn }
}

// WithRequestIDExtractor fills Event.RequestID from the context.
func WithRequestIDExtractor(fn func(context.Context) string) RecorderOption {
	return func(r *Recorder) { r.requestID = fn }
}

// WithIPExtractor fills Event.IP from the context.
func WithIPExtractor(fn func(context.Context) string) RecorderOption {
	return func(r *Recorder) { r.ip = fn }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRecorderLogger reports write failures.
func WithRecorderLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRecorder returns a Recorder writing to w.
func NewRecorder(w Writer, opts ...RecorderOption) *Recorder {
	if w == nil {
		panic("audit: writer cannot be nil")
	}
	r := &Recorder{w: w, now: time.Now, log: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stamps e and writes it. Write failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	if e.Subject == "" && r.subject != nil {
		e.Subject = r.subject(ctx)
	}
	if e.RequestID == "" && r.requestID != nil {
		e.RequestID = r.requestID(ctx)
	}
	if e.IP == "" && r.ip != nil {
		e.IP = r.ip(ctx)
	}
	if err := r.w.Store(ctx, e); err != nil {
		r.log.WarnContext(ctx, "audit event not recorded",
			logger.Component("audit"),
			logger.Error(err),
		)
	}
}
