package audit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of an authorization check.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// Event is one audited authorization decision.
type Event struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject,omitempty"`
	Role       string    `json:"role,omitempty"`
	Decision   Decision  `json:"decision"`
	Permission string    `json:"permission,omitempty"`
	Resource   string    `json:"resource,omitempty"`
	Method     string    `json:"method,omitempty"`
	Path       string    `json:"path,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	IP         string    `json:"ip,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the fields every stored event must carry.
func (e Event) Validate() error {
	if e.Decision != DecisionAllow && e.Decision != DecisionDeny {
		return fmt.Errorf("%w: decision %q", ErrInvalidEvent, e.Decision)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing id or timestamp", ErrInvalidEvent)
	}
	return nil
}

// Criteria filters stored events. Zero fields match everything. Results are
// newest first.
type Criteria struct {
	Subject  string
	Role     string
	Decision Decision
	Since    time.Time
	Until    time.Time
	Limit    int
}

func (c Criteria) match(e Event) bool {
	switch {
	case c.Subject != "" && e.Subject != c.Subject:
		return false
	case c.Role != "" && e.Role != c.Role:
		return false
	case c.Decision != "" && e.Decision != c.Decision:
		return false
	case !c.Since.IsZero() && e.CreatedAt.Before(c.Since):
		return false
	case !c.Until.IsZero() && !e.CreatedAt.Before(c.Until):
		return false
	}
	return true
}

// Writer persists events.
type Writer interface {
	Store(ctx context.Context, events ...Event) error
}

// Reader queries stored events.
type Reader interface {
	Query(ctx context.Context, c Criteria) ([]Event, error)
}

// Storage is a backend that can both write and query.
type Storage interface {
	Writer
	Reader
}
