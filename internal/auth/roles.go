package auth

import (
	"fmt"
	"strings"
)

// RoleCode identifies a permission tier. The set is closed at compile time;
// extend it by adding a constant here.
type RoleCode string

const (
	RoleAdmin  RoleCode = "admin"
	RoleEditor RoleCode = "editor"
	RoleViewer RoleCode = "viewer"
)

// KnownRoles lists every role code the service understands.
var KnownRoles = []RoleCode{RoleAdmin, RoleEditor, RoleViewer}

// ElevatedRoles are the roles allowed to create, update, and delete records.
var ElevatedRoles = elevatedRoles()

func elevatedRoles() []RoleCode {
	var out []RoleCode
	for _, code := range KnownRoles {
		if code.GrantsElevatedAccess() {
			out = append(out, code)
		}
	}
	return out
}

// GrantsElevatedAccess reports whether holders of the role may mutate records.
func (c RoleCode) GrantsElevatedAccess() bool {
	switch c {
	case RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}

// IsKnown reports whether c is one of KnownRoles.
func (c RoleCode) IsKnown() bool {
	for _, known := range KnownRoles {
		if c == known {
			return true
		}
	}
	return false
}

func (c RoleCode) String() string {
	return string(c)
}

// ParseRoleCode normalizes s and returns the matching role code.
func ParseRoleCode(s string) (RoleCode, error) {
	code := RoleCode(strings.ToLower(strings.TrimSpace(s)))
	if !code.IsKnown() {
		return "", fmt.Errorf("unknown role code %q", s)
	}
	return code, nil
}

// ParseRoleCodes parses a comma separated list such as "admin,editor".
// Empty items are skipped and duplicates are kept; callers deduplicate.
func ParseRoleCodes(csv string) ([]RoleCode, error) {
	var codes []RoleCode
	for _, item := range strings.Split(csv, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		code, err := ParseRoleCode(item)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// HasAnyRole reports whether held and allowed intersect.
func HasAnyRole(held []RoleCode, allowed []RoleCode) bool {
	for _, h := range held {
		for _, a := range allowed {
			if h == a {
				return true
			}
		}
	}
	return false
}
