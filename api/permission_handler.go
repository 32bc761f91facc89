package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/radius/permission"
)

func (a *API) registerPermissionRoutes(router forge.Router) error {
	g := router.Group(a.basePath, forge.WithGroupTags("permissions"))

	if err := g.GET("/permissions", a.listPermissions,
		forge.WithSummary("List permissions"),
		forge.WithDescription("Lists every permission."),
		forge.WithOperationID("listPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission list", []*permission.Permission{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/permissions/:id", a.getPermission,
		forge.WithSummary("Get permission"),
		forge.WithOperationID("getPermission"),
		forge.WithResponseSchema(http.StatusOK, "Permission details", &permission.Permission{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/permissions", a.createPermission,
		forge.WithSummary("Create permission"),
		forge.WithDescription("Creates a permission. The new record's URL is returned in the Location header."),
		forge.WithOperationID("createPermission"),
		forge.WithRequestSchema(CreatePermissionRequest{}),
		forge.WithResponseSchema(http.StatusCreated, "Permission created", struct{}{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/permissions/:id", a.updatePermission,
		forge.WithSummary("Update permission"),
		forge.WithDescription("Sets the supplied fields. An unknown ID is created when a name is supplied."),
		forge.WithOperationID("updatePermission"),
		forge.WithRequestSchema(UpdatePermissionRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/permissions/:id", a.deletePermission,
		forge.WithSummary("Delete permission"),
		forge.WithDescription("Deletes a permission. Roles referencing it are left unchanged."),
		forge.WithOperationID("deletePermission"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listPermissions(ctx forge.Context, _ *struct{}) (*struct{}, error) {
	perms, err := a.svc.ListPermissions(ctx.Context())
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.JSON(http.StatusOK, perms)
}

func (a *API) getPermission(ctx forge.Context, _ *PathRequest) (*permission.Permission, error) {
	permID, err := pathID(ctx, "permission")
	if err != nil {
		return nil, mapError(err)
	}

	p, err := a.svc.GetPermission(ctx.Context(), permID)
	if err != nil {
		return nil, mapError(err)
	}

	return p, nil
}

func (a *API) createPermission(ctx forge.Context, req *CreatePermissionRequest) (*struct{}, error) {
	p, err := a.svc.CreatePermission(ctx.Context(), &permission.Permission{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return nil, a.created(ctx, "permissions", p.ID)
}

func (a *API) updatePermission(ctx forge.Context, req *UpdatePermissionRequest) (*struct{}, error) {
	permID, err := pathID(ctx, "permission")
	if err != nil {
		return nil, mapError(err)
	}

	err = a.svc.UpdatePermission(ctx.Context(), permID, &permission.Update{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deletePermission(ctx forge.Context, _ *PathRequest) (*struct{}, error) {
	permID, err := pathID(ctx, "permission")
	if err != nil {
		return nil, mapError(err)
	}

	if err := a.svc.DeletePermission(ctx.Context(), permID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
