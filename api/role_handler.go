package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/radius/role"
)

func (a *API) registerRoleRoutes(router forge.Router) error {
	g := router.Group(a.basePath, forge.WithGroupTags("roles"))

	if err := g.GET("/roles", a.listRoles,
		forge.WithSummary("List roles"),
		forge.WithDescription("Lists every role with its permissions resolved."),
		forge.WithOperationID("listRoles"),
		forge.WithResponseSchema(http.StatusOK, "Role list", []*role.Detail{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/roles/:id", a.getRole,
		forge.WithSummary("Get role"),
		forge.WithDescription("Returns a role with its permissions resolved. Permissions that no longer exist are omitted."),
		forge.WithOperationID("getRole"),
		forge.WithResponseSchema(http.StatusOK, "Role details", &role.Detail{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/roles", a.createRole,
		forge.WithSummary("Create role"),
		forge.WithDescription("Creates a role. Permission IDs are stored as given."),
		forge.WithOperationID("createRole"),
		forge.WithRequestSchema(CreateRoleRequest{}),
		forge.WithResponseSchema(http.StatusCreated, "Role created", struct{}{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/roles/:id", a.updateRole,
		forge.WithSummary("Update role"),
		forge.WithDescription("Sets the supplied fields. An unknown ID is created when a name is supplied."),
		forge.WithOperationID("updateRole"),
		forge.WithRequestSchema(UpdateRoleRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/roles/:id", a.deleteRole,
		forge.WithSummary("Delete role"),
		forge.WithDescription("Deletes a role. Users referencing it are left unchanged."),
		forge.WithOperationID("deleteRole"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listRoles(ctx forge.Context, _ *struct{}) (*struct{}, error) {
	roles, err := a.svc.ListRoles(ctx.Context())
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.JSON(http.StatusOK, roles)
}

func (a *API) getRole(ctx forge.Context, _ *PathRequest) (*role.Detail, error) {
	roleID, err := pathID(ctx, "role")
	if err != nil {
		return nil, mapError(err)
	}

	r, err := a.svc.GetRole(ctx.Context(), roleID)
	if err != nil {
		return nil, mapError(err)
	}

	return r, nil
}

func (a *API) createRole(ctx forge.Context, req *CreateRoleRequest) (*struct{}, error) {
	perms, err := refIDs("permissions", req.Permissions)
	if err != nil {
		return nil, mapError(err)
	}

	r, err := a.svc.CreateRole(ctx.Context(), &role.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return nil, a.created(ctx, "roles", r.ID)
}

func (a *API) updateRole(ctx forge.Context, req *UpdateRoleRequest) (*struct{}, error) {
	roleID, err := pathID(ctx, "role")
	if err != nil {
		return nil, mapError(err)
	}

	perms, err := refIDsPtr("permissions", req.Permissions)
	if err != nil {
		return nil, mapError(err)
	}

	err = a.svc.UpdateRole(ctx.Context(), roleID, &role.Update{
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deleteRole(ctx forge.Context, _ *PathRequest) (*struct{}, error) {
	roleID, err := pathID(ctx, "role")
	if err != nil {
		return nil, mapError(err)
	}

	if err := a.svc.DeleteRole(ctx.Context(), roleID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
