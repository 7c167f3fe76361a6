package rbac

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// policyDocument is the on-disk shape of a policy file:
//
//	roles:
//	  admin: ["dashboard:view", "reports:view"]
//	  field: ["dashboard:view"]
type policyDocument struct {
	Roles map[string][]string `yaml:"roles"`
}

// fileSource reads grants from a YAML file on every Load, so a reload picks up edits.
type fileSource struct {
	path string
}

// NewFileSource creates a source backed by the YAML file at path.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

// Load reads and decodes the file. Unknown roles and malformed permission
// strings fail the whole load.
func (s *fileSource) Load(ctx context.Context) (Grants, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrInvalidPolicyFile, err)
	}
	return ParsePolicyYAML(raw)
}

// ParsePolicyYAML decodes a policy document and validates every role name and
// permission string. Catalog membership is checked later by NewPolicy.
func ParsePolicyYAML(raw []byte) (Grants, error) {
	var doc policyDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidPolicyFile, err)
	}
	if doc.Roles == nil {
		return nil, fmt.Errorf("%w: missing roles section", ErrInvalidPolicyFile)
	}

	grants := make(Grants, len(doc.Roles))
	for name, perms := range doc.Roles {
		role, err := ParseRole(name)
		if err != nil {
			return nil, errors.Join(ErrInvalidPolicyFile, err)
		}
		parsed, err := ParsePermissions(perms...)
		if err != nil {
			return nil, errors.Join(ErrInvalidPolicyFile, fmt.Errorf("role %q: %w", role, err))
		}
		grants[role] = parsed
	}
	return grants, nil
}

// MarshalPolicyYAML encodes grants in the policy file format with roles and
// permissions in display order.
func MarshalPolicyYAML(grants Grants) ([]byte, error) {
	doc := policyDocument{Roles: make(map[string][]string, len(grants))}
	for role, perms := range grants {
		doc.Roles[string(role)] = NewPermissionSet(perms...).Strings()
	}
	return yaml.Marshal(doc)
}
