package rbac

// CellState describes one Role x Resource x Action cell of the policy grid.
type CellState string

const (
	CellGranted       CellState = "granted"
	CellDenied        CellState = "denied"
	CellNotApplicable CellState = "n/a"
)

// GridRow is one resource line of a role's grid.
type GridRow struct {
	Resource Resource             `json:"resource"`
	Access   bool                 `json:"access"`
	Cells    map[Action]CellState `json:"cells"`
}

// RoleGrid is the full resource x action matrix for a role.
type RoleGrid struct {
	Role Role      `json:"role"`
	Rows []GridRow `json:"rows"`
}

// PolicyGrid is a read-only rendering of the whole policy.
type PolicyGrid struct {
	Actions []Action   `json:"actions"`
	Roles   []RoleGrid `json:"roles"`
}

// Grid renders the policy behind a for every role. It reads the same table the
// decision queries use, so the rendering cannot drift from enforcement.
func Grid(a *Authorizer) PolicyGrid {
	out := PolicyGrid{
		Actions: AllActions(),
		Roles:   make([]RoleGrid, 0, len(roles)),
	}
	for _, role := range roles {
		out.Roles = append(out.Roles, GridForRole(a, role))
	}
	return out
}

// GridForRole renders the resource x action matrix for one role.
func GridForRole(a *Authorizer, role Role) RoleGrid {
	catalog := a.Policy().Catalog()
	rg := RoleGrid{
		Role: role,
		Rows: make([]GridRow, 0, len(resources)),
	}
	for _, res := range resources {
		row := GridRow{
			Resource: res,
			Access:   a.CanAccess(role, res),
			Cells:    make(map[Action]CellState, len(actions)),
		}
		for _, act := range actions {
			p := Permission{Resource: res, Action: act}
			switch {
			case !catalog.Contains(p):
				row.Cells[act] = CellNotApplicable
			case a.Can(role, p):
				row.Cells[act] = CellGranted
			default:
				row.Cells[act] = CellDenied
			}
		}
		rg.Rows = append(rg.Rows, row)
	}
	return rg
}
