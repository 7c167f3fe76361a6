package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/principal"
	"github.com/intelgrid/dashguard/pkg/rbac"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("policyctl "+name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func parse(fs *pflag.FlagSet, args []string, out io.Writer) (bool, error) {
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// loadAuthorizer builds an authorizer from path or the built-in table.
func loadAuthorizer(path string) (*rbac.Authorizer, error) {
	source := rbac.DefaultSource()
	if path != "" {
		source = rbac.NewFileSource(path)
	}
	grants, err := source.Load(context.Background())
	if err != nil {
		return nil, err
	}
	policy, err := rbac.NewPolicy(nil, grants)
	if err != nil {
		return nil, err
	}
	return rbac.NewAuthorizer(policy, rbac.WithLogger(logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithTextFormatter(),
		logger.WithLevel(slog.LevelWarn),
	))), nil
}

func runValidate(args []string, out io.Writer) error {
	fs := newFlagSet("validate")
	file := fs.StringP("file", "f", "", "policy YAML file (required)")
	if ok, err := parse(fs, args, out); !ok {
		return err
	}
	if *file == "" {
		return errors.New("validate: --file is required")
	}

	auth, err := loadAuthorizer(*file)
	if err != nil {
		return fmt.Errorf("validate %s: %w", *file, err)
	}
	fmt.Fprintf(out, "%s: ok\n", *file)
	for _, role := range rbac.AllRoles() {
		fmt.Fprintf(out, "  %-10s %d permissions\n", role, auth.EffectivePermissions(role).Len())
	}
	return nil
}

func runGrid(args []string, out io.Writer) error {
	fs := newFlagSet("grid")
	file := fs.StringP("file", "f", "", "policy YAML file")
	roleName := fs.StringP("role", "r", "", "only this role")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if ok, err := parse(fs, args, out); !ok {
		return err
	}

	auth, err := loadAuthorizer(*file)
	if err != nil {
		return err
	}

	grid := rbac.Grid(auth)
	if *roleName != "" {
		role, err := rbac.ParseRole(*roleName)
		if err != nil {
			return err
		}
		grid.Roles = []rbac.RoleGrid{rbac.GridForRole(auth, role)}
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	}
	return printGrid(out, grid)
}

func printGrid(out io.Writer, grid rbac.PolicyGrid) error {
	marks := map[rbac.CellState]string{
		rbac.CellGranted:       "x",
		rbac.CellDenied:        ".",
		rbac.CellNotApplicable: " ",
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, rg := range grid.Roles {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		header := []string{strings.ToUpper(string(rg.Role)), "access"}
		for _, act := range grid.Actions {
			header = append(header, string(act))
		}
		fmt.Fprintln(tw, strings.Join(header, "\t"))

		for _, row := range rg.Rows {
			cols := []string{string(row.Resource), "no"}
			if row.Access {
				cols[1] = "yes"
			}
			for _, act := range grid.Actions {
				cols = append(cols, marks[row.Cells[act]])
			}
			fmt.Fprintln(tw, strings.Join(cols, "\t"))
		}
	}
	return tw.Flush()
}

func runCheck(args []string, out io.Writer) error {
	fs := newFlagSet("check")
	file := fs.StringP("file", "f", "", "policy YAML file")
	roleName := fs.StringP("role", "r", "", "role to evaluate (required)")
	mode := fs.StringP("mode", "m", "all", `"all" or "any"`)
	resource := fs.String("resource", "", "also require access to this resource")
	if ok, err := parse(fs, args, out); !ok {
		return err
	}

	role, err := rbac.ParseRole(*roleName)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	perms, err := rbac.ParsePermissions(fs.Args()...)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if len(perms) == 0 && *resource == "" {
		return errors.New("check: give permissions or --resource")
	}
	var res rbac.Resource
	if *resource != "" {
		if res, err = rbac.ParseResource(*resource); err != nil {
			return fmt.Errorf("check: %w", err)
		}
	}
	if *mode != "all" && *mode != "any" {
		return fmt.Errorf("check: unknown mode %q", *mode)
	}
	auth, err := loadAuthorizer(*file)
	if err != nil {
		return err
	}

	var decision error
	switch {
	case len(perms) == 0:
	case *mode == "any":
		decision = auth.AuthorizeAny(role, perms...)
	default:
		decision = auth.AuthorizeAll(role, perms...)
	}
	if decision == nil && res != "" {
		decision = auth.AuthorizeAccess(role, res)
	}

	if decision != nil {
		fmt.Fprintf(out, "deny: %v\n", decision)
		return exitError{code: 3}
	}
	fmt.Fprintln(out, "allow")
	return nil
}

func runDump(args []string, out io.Writer) error {
	fs := newFlagSet("dump")
	if ok, err := parse(fs, args, out); !ok {
		return err
	}
	raw, err := rbac.MarshalPolicyYAML(rbac.DefaultGrants())
	if err != nil {
		return err
	}
	_, err = out.Write(raw)
	return err
}

func runToken(args []string, out io.Writer) error {
	fs := newFlagSet("token")
	secret := fs.String("secret", "", "HS256 signing secret (required)")
	issuer := fs.String("issuer", "", "token issuer")
	subject := fs.StringP("subject", "s", "", "subject id (required)")
	roleName := fs.StringP("role", "r", "", "role claim (required)")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if ok, err := parse(fs, args, out); !ok {
		return err
	}
	if *subject == "" {
		return errors.New("token: --subject is required")
	}
	role, err := rbac.ParseRole(*roleName)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}

	res, err := principal.NewResolver([]byte(*secret), principal.WithIssuer(*issuer))
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	tok, err := res.Issue(*subject, role, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}
