package types

import (
	"encoding/json"
	"fmt"
)

type Role int32

const (
	NullRole  Role = 0
	Moderator Role = 1
	Member    Role = 2
	Admin     Role = 3
)

var roleNames = map[Role]string{
	NullRole:  "NULL_ROLE",
	Moderator: "MODERATOR",
	Member:    "MEMBER",
	Admin:     "ADMIN",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int32(r))
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for role, n := range roleNames {
		if n == name {
			*r = role
			return nil
		}
	}
	return NewInvalidValueError("role", name, "unknown role name")
}

type RoleChangeKind int

const (
	RoleGranted RoleChangeKind = iota + 1
	RoleRevoked
)

func (k RoleChangeKind) String() string {
	switch k {
	case RoleGranted:
		return "granted"
	case RoleRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// RoleChangeFields are shared by both role change variants.
type RoleChangeFields struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Account string `json:"account"`
	Sender  string `json:"sender"`
	Space   string `json:"space"`
}

// RoleChange is a role granted or revoked on a legacy space. Kind selects the
// variant; the JSON form carries exactly one of "granted" or "revoked".
type RoleChange struct {
	Kind RoleChangeKind
	RoleChangeFields
}

func NewRoleGranted(fields RoleChangeFields) RoleChange {
	return RoleChange{Kind: RoleGranted, RoleChangeFields: fields}
}

func NewRoleRevoked(fields RoleChangeFields) RoleChange {
	return RoleChange{Kind: RoleRevoked, RoleChangeFields: fields}
}

func (c RoleChange) Granted() (RoleChangeFields, bool) {
	return c.RoleChangeFields, c.Kind == RoleGranted
}

func (c RoleChange) Revoked() (RoleChangeFields, bool) {
	return c.RoleChangeFields, c.Kind == RoleRevoked
}

type roleChangeJSON struct {
	Granted *RoleChangeFields `json:"granted,omitempty"`
	Revoked *RoleChangeFields `json:"revoked,omitempty"`
}

func (c RoleChange) MarshalJSON() ([]byte, error) {
	fields := c.RoleChangeFields
	switch c.Kind {
	case RoleGranted:
		return json.Marshal(roleChangeJSON{Granted: &fields})
	case RoleRevoked:
		return json.Marshal(roleChangeJSON{Revoked: &fields})
	default:
		return nil, NewInvalidValueError("role change kind", c.Kind.String(), "must be granted or revoked")
	}
}

func (c *RoleChange) UnmarshalJSON(data []byte) error {
	var raw roleChangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Granted != nil && raw.Revoked == nil:
		*c = NewRoleGranted(*raw.Granted)
	case raw.Revoked != nil && raw.Granted == nil:
		*c = NewRoleRevoked(*raw.Revoked)
	default:
		return NewInvalidValueError("role change", string(data), "exactly one of granted or revoked must be set")
	}
	return nil
}
