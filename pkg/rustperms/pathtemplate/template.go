// Package pathtemplate implements the permission-path templating used by
// HTTP middleware guarding a route with a rustperms permission: a
// permission string may carry `{var}` placeholders filled in from the
// request's path parameters, plus the reserved `{from_access}` placeholder
// filled in from the caller's identity. Wildcards are never allowed in a
// template; an unresolved placeholder after substitution fails closed.
package pathtemplate

import (
	"regexp"
	"strings"

	"github.com/rustperms/rustperms/pkg/rperrors"
	"github.com/rustperms/rustperms/pkg/rustperms/path"
)

// fromAccess is the reserved placeholder filled in from the caller's
// identity rather than from path parameters.
const fromAccess = "{from_access}"

var varPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Template is a permission string with zero or more `{var}` placeholders.
type Template struct {
	raw  string
	vars []string // without braces
}

// New parses a permission template. It rejects templates containing `*` or
// `?`, since a wildcard permission can never be the single concrete permission a
// route check asks for.
func New(permission string) (*Template, error) {
	if strings.Contains(permission, path.WildcardAny) || strings.Contains(permission, path.WildcardOne) {
		return nil, rperrors.ValidationError{
			EntityType: "permission_template",
			Message:    "permission templates cannot contain wildcards",
		}
	}

	var vars []string

	for _, m := range varPattern.FindAllStringSubmatch(permission, -1) {
		vars = append(vars, m[1])
	}

	return &Template{raw: permission, vars: vars}, nil
}

// Complete substitutes {from_access} with userUID (when non-empty) and
// every {var} present in kvs, returning the completed permission string.
// The second return value is false if any `{`/`}` remains afterward,
// meaning some placeholder was never resolved — callers must fail closed
// on that, never fall back to the raw template.
func (t *Template) Complete(kvs map[string]string, userUID string) (string, bool) {
	permission := t.raw

	if userUID != "" {
		permission = strings.ReplaceAll(permission, fromAccess, userUID)
	}

	for _, v := range t.vars {
		val, ok := kvs[v]
		if !ok {
			continue
		}

		permission = strings.ReplaceAll(permission, "{"+v+"}", val)
	}

	if strings.ContainsAny(permission, "{}") {
		return "", false
	}

	return permission, true
}

// String returns the template's raw, uncompleted permission string.
func (t *Template) String() string {
	return t.raw
}
