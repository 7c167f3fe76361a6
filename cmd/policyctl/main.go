// Command policyctl inspects and validates dashboard role policies offline.
//
//	policyctl validate --file policy.yaml
//	policyctl grid [--file policy.yaml] [--role analyst] [--json]
//	policyctl check [--file policy.yaml] --role field data:edit
//	policyctl dump > policy.yaml
//	policyctl token --secret $AUTH_TOKEN_SECRET --subject u-1 --role analyst
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitError carries a process exit code without an error message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return exitError{code: 2}
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "validate":
		return runValidate(rest, out)
	case "grid":
		return runGrid(rest, out)
	case "check":
		return runCheck(rest, out)
	case "dump":
		return runDump(rest, out)
	case "token":
		return runToken(rest, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("unknown command %q (see policyctl help)", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `policyctl inspects dashboard role policies.

Usage:
  policyctl <command> [flags]

Commands:
  validate   parse a policy file and report per-role grant counts
  grid       print the role x resource x action matrix
  check      evaluate permissions for a role; exit 0 when allowed, 3 when denied
  dump       write the built-in role table as YAML
  token      issue a session token for local testing

Without --file the built-in role table is used.
`)
}
