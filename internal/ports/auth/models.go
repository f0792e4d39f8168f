package auth

import "strings"

// Role define qué puede hacer un usuario dentro del hogar/shelter.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleCaretaker Role = "caretaker"
	RoleViewer    Role = "viewer"
)

// ParseRole normaliza el claim; vacío o desconocido => viewer (solo lectura).
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner
	case RoleAdmin:
		return RoleAdmin
	case RoleCaretaker:
		return RoleCaretaker
	default:
		return RoleViewer
	}
}

// CanWrite: owner, admin y caretaker pueden mutar; viewer no.
func (r Role) CanWrite() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleCaretaker:
		return true
	}
	return false
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}
