package constants

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleReceptionist  Role = "RECEPTIONIST"
	RoleTeacher       Role = "TEACHER"
	RoleStudent       Role = "STUDENT"
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleReceptionist, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// IsStaff: administrator atau receptionist, boleh bertindak atas nama student lain.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdministrator, RoleReceptionist:
		return true
	case RoleTeacher, RoleStudent:
		return false
	}
	return false
}

// ParseRole menerima "teacher", " Teacher " dst.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Template pesan error role
const (
	ErrOnlyStaffCanAccess    = "❌ Only administrators or receptionists may access %s."
	ErrOnlyAdminsCanAccess   = "❌ Only administrators may access %s."
	ErrOnlyTeachersCanAccess = "❌ Only teachers may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdministrator.String(),
		RoleReceptionist.String(),
		RoleTeacher.String(),
		RoleStudent.String(),
	}

	StaffRoles = []string{
		RoleAdministrator.String(),
		RoleReceptionist.String(),
	}

	TeacherAndStaff = []string{
		RoleTeacher.String(),
		RoleAdministrator.String(),
		RoleReceptionist.String(),
	}

	AdminOnly = []string{
		RoleAdministrator.String(),
	}

	TeacherOnly = []string{
		RoleTeacher.String(),
	}
)
