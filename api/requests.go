package api

// PathRequest is the path parameter shared by all single-record routes.
type PathRequest struct {
	ID string `path:"id" description:"Record ID (24 hex characters)"`
}

// ──────────────────────────────────────────────────
// Permission requests
// ──────────────────────────────────────────────────

// CreatePermissionRequest is the body for creating a permission.
type CreatePermissionRequest struct {
	Name        string `json:"name" description:"Unique permission name"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
}

// UpdatePermissionRequest is the body for updating a permission.
// Omitted fields are left unchanged.
type UpdatePermissionRequest struct {
	Name        *string `json:"name,omitempty" description:"Unique permission name"`
	Description *string `json:"description,omitempty" description:"Human-readable description"`
}

// ──────────────────────────────────────────────────
// Role requests
// ──────────────────────────────────────────────────

// CreateRoleRequest is the body for creating a role.
type CreateRoleRequest struct {
	Name        string   `json:"name" description:"Unique role name"`
	Description string   `json:"description,omitempty" description:"Human-readable description"`
	Permissions []string `json:"permissions,omitempty" description:"Permission IDs, stored as given"`
}

// UpdateRoleRequest is the body for updating a role.
// Omitted fields are left unchanged; permissions replaces the whole list.
type UpdateRoleRequest struct {
	Name        *string   `json:"name,omitempty" description:"Unique role name"`
	Description *string   `json:"description,omitempty" description:"Human-readable description"`
	Permissions *[]string `json:"permissions,omitempty" description:"Permission IDs, stored as given"`
}

// ──────────────────────────────────────────────────
// User requests
// ──────────────────────────────────────────────────

// CreateUserRequest is the body for creating a user.
type CreateUserRequest struct {
	Name  string   `json:"name" description:"Unique user name"`
	Roles []string `json:"roles,omitempty" description:"Role IDs, stored as given"`
}

// UpdateUserRequest is the body for updating a user.
// Omitted fields are left unchanged; roles replaces the whole list.
type UpdateUserRequest struct {
	Name  *string   `json:"name,omitempty" description:"Unique user name"`
	Roles *[]string `json:"roles,omitempty" description:"Role IDs, stored as given"`
}
