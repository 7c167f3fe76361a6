package authzapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/navigation"
	"github.com/intelgrid/dashguard/pkg/rbac"
	"github.com/intelgrid/dashguard/pkg/response"
)

// CheckMode selects how a permission list is combined.
type CheckMode string

const (
	ModeOne CheckMode = "one"
	ModeAny CheckMode = "any"
	ModeAll CheckMode = "all"
)

// maxCheckBody caps POST /me/check bodies.
const maxCheckBody = 64 << 10

// PermissionsResponse is the body of GET /me/permissions.
type PermissionsResponse struct {
	Role        rbac.Role `json:"role"`
	Permissions []string  `json:"permissions"`
}

// NavigationResponse is the body of GET /me/navigation.
type NavigationResponse struct {
	Role  rbac.Role         `json:"role"`
	Items []navigation.Item `json:"items"`
}

// CheckRequest is the body of POST /me/check. Mode defaults to "all".
// A non-empty Resource additionally requires access to it; with no
// permissions the check is access to Resource alone.
type CheckRequest struct {
	Permissions []string  `json:"permissions"`
	Mode        CheckMode `json:"mode"`
	Resource    string    `json:"resource"`
}

// CheckResponse is the body answered by POST /me/check.
type CheckResponse struct {
	Allowed bool `json:"allowed"`
}

func (a *api) permissions(w http.ResponseWriter, r *http.Request) {
	role, _ := rbac.RoleFromContext(r.Context())
	perms := a.policy.Authorizer().EffectivePermissions(role).Strings()
	if perms == nil {
		perms = []string{}
	}
	response.JSON(w, http.StatusOK, PermissionsResponse{Role: role, Permissions: perms})
}

func (a *api) navigation(w http.ResponseWriter, r *http.Request) {
	role, _ := rbac.RoleFromContext(r.Context())
	items := navigation.Visible(a.policy.Authorizer(), role, a.items)
	response.JSON(w, http.StatusOK, NavigationResponse{Role: role, Items: items})
}

func (a *api) check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCheckBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		response.Error(w, response.ErrBadRequest.WithMessage("malformed check request"))
		return
	}

	perms, err := rbac.ParsePermissions(req.Permissions...)
	if err != nil {
		a.log.DebugContext(r.Context(), "check rejected", logger.Error(err))
		response.Error(w, response.ErrInvalidPermission.WithMessage(err.Error()))
		return
	}

	var resource rbac.Resource
	if req.Resource != "" {
		if resource, err = rbac.ParseResource(req.Resource); err != nil {
			a.log.DebugContext(r.Context(), "check rejected", logger.Error(err))
			response.Error(w, response.ErrInvalidResource.WithMessage(err.Error()))
			return
		}
	}

	role, _ := rbac.RoleFromContext(r.Context())
	auth := a.policy.Authorizer()

	allowed := true
	if len(perms) > 0 || resource == "" {
		if allowed, err = evaluate(auth, role, req.Mode, perms); err != nil {
			response.Error(w, response.ErrBadRequest.WithMessage(err.Error()))
			return
		}
	} else if err = validMode(req.Mode); err != nil {
		response.Error(w, response.ErrBadRequest.WithMessage(err.Error()))
		return
	}
	if resource != "" {
		allowed = allowed && auth.CanAccess(role, resource)
	}

	response.JSON(w, http.StatusOK, CheckResponse{Allowed: allowed})
}

var errModeOne = errors.New(`mode "one" takes exactly one permission`)

func validMode(mode CheckMode) error {
	switch mode {
	case ModeOne, ModeAny, ModeAll, "":
		return nil
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func evaluate(auth *rbac.Authorizer, role rbac.Role, mode CheckMode, perms []rbac.Permission) (bool, error) {
	switch mode {
	case ModeOne:
		if len(perms) != 1 {
			return false, errModeOne
		}
		return auth.Can(role, perms[0]), nil
	case ModeAny:
		return auth.CanAny(role, perms...), nil
	case ModeAll, "":
		return auth.CanAll(role, perms...), nil
	default:
		return false, validMode(mode)
	}
}

func (a *api) grid(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, rbac.Grid(a.policy.Authorizer()))
}

func (a *api) roleGrid(w http.ResponseWriter, r *http.Request) {
	role, err := rbac.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		response.Error(w, response.ErrNotFound.WithMessage(err.Error()))
		return
	}
	response.JSON(w, http.StatusOK, rbac.GridForRole(a.policy.Authorizer(), role))
}
