package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	// RoleOrganizer owns an event and may change any arrangement.
	RoleOrganizer UserRole = "ORGANIZER"
	// RolePlanner generates and edits arrangements on behalf of an organizer.
	RolePlanner UserRole = "PLANNER"
	// RoleViewer has read-only access to arrangements and exports.
	RoleViewer UserRole = "VIEWER"
)

// EditorRoles may mutate arrangements.
var EditorRoles = []UserRole{RoleOrganizer, RolePlanner}

// ReaderRoles may read arrangements.
var ReaderRoles = []UserRole{RoleOrganizer, RolePlanner, RoleViewer}
