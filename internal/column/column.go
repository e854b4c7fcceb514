// Package column describes how positional record fields map onto
// transaction fields and coerces raw text into typed values.
package column

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the meaning of one input column.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
	RoleID          Role = "id"
	RoleSkip        Role = "skip"
)

// ErrUnknownRole is returned for a column format token that is not a Role.
var ErrUnknownRole = errors.New("unknown column format token")

// Format is an ordered list of roles, one per leading input column.
// Fields past the end of the format are ignored.
type Format []Role

// DefaultFormat is the layout of the generic table and the sampo export.
var DefaultFormat = Format{RoleDate, RoleDescription, RoleID, RoleAmount}

// ParseFormat parses a comma separated list such as "date,description,id,amount".
func ParseFormat(s string) (Format, error) {
	var f Format
	for _, tok := range strings.Split(s, ",") {
		role := Role(strings.ToLower(strings.TrimSpace(tok)))
		switch role {
		case RoleDate, RoleDescription, RoleAmount, RoleID, RoleSkip:
			f = append(f, role)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, tok)
		}
	}
	return f, nil
}

// String returns the format in the form accepted by ParseFormat.
func (f Format) String() string {
	parts := make([]string, len(f))
	for i, r := range f {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
