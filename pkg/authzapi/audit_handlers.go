package authzapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/intelgrid/dashguard/pkg/audit"
	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/response"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// AuditResponse is the body of GET /audit/events.
type AuditResponse struct {
	Events []audit.Event `json:"events"`
}

func (a *api) auditEvents(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r, defaultAuditLimit)
	if err != nil {
		response.Error(w, response.ErrBadRequest.WithMessage(err.Error()))
		return
	}
	events, err := a.trail.Query(r.Context(), c)
	if err != nil {
		a.log.ErrorContext(r.Context(), "audit query failed", logger.Error(err))
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, AuditResponse{Events: events})
}

func (a *api) auditExport(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r, 0)
	if err != nil {
		response.Error(w, response.ErrBadRequest.WithMessage(err.Error()))
		return
	}
	events, err := a.trail.Query(r.Context(), c)
	if err != nil {
		a.log.ErrorContext(r.Context(), "audit export failed", logger.Error(err))
		response.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="audit.ndjson"`)
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return
		}
	}
}

// parseCriteria reads decision, role, subject, since, until (RFC 3339) and
// limit from the query string.
func parseCriteria(r *http.Request, defaultLimit int) (audit.Criteria, error) {
	q := r.URL.Query()
	c := audit.Criteria{
		Subject:  q.Get("subject"),
		Role:     q.Get("role"),
		Decision: audit.Decision(q.Get("decision")),
		Limit:    defaultLimit,
	}
	if c.Decision != "" && c.Decision != audit.DecisionAllow && c.Decision != audit.DecisionDeny {
		return c, errors.New("decision must be allow or deny")
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c, errors.New("limit must be a positive integer")
		}
		c.Limit = min(n, maxAuditLimit)
	}
	for key, dst := range map[string]*time.Time{"since": &c.Since, "until": &c.Until} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c, errors.New(key + " must be an RFC 3339 timestamp")
		}
		*dst = t
	}
	return c, nil
}
