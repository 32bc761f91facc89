package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/radius/user"
)

func (a *API) registerUserRoutes(router forge.Router) error {
	g := router.Group(a.basePath, forge.WithGroupTags("users"))

	if err := g.GET("/users", a.listUsers,
		forge.WithSummary("List users"),
		forge.WithDescription("Lists every user with roles and their permissions resolved."),
		forge.WithOperationID("listUsers"),
		forge.WithResponseSchema(http.StatusOK, "User list", []*user.Detail{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/users/:id", a.getUser,
		forge.WithSummary("Get user"),
		forge.WithDescription("Returns a user with roles and their permissions resolved. References that no longer exist are omitted."),
		forge.WithOperationID("getUser"),
		forge.WithResponseSchema(http.StatusOK, "User details", &user.Detail{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/users", a.createUser,
		forge.WithSummary("Create user"),
		forge.WithDescription("Creates a user. Role IDs are stored as given."),
		forge.WithOperationID("createUser"),
		forge.WithRequestSchema(CreateUserRequest{}),
		forge.WithResponseSchema(http.StatusCreated, "User created", struct{}{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/users/:id", a.updateUser,
		forge.WithSummary("Update user"),
		forge.WithDescription("Sets the supplied fields. An unknown ID is created when a name is supplied."),
		forge.WithOperationID("updateUser"),
		forge.WithRequestSchema(UpdateUserRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/users/:id", a.deleteUser,
		forge.WithSummary("Delete user"),
		forge.WithOperationID("deleteUser"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listUsers(ctx forge.Context, _ *struct{}) (*struct{}, error) {
	users, err := a.svc.ListUsers(ctx.Context())
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.JSON(http.StatusOK, users)
}

func (a *API) getUser(ctx forge.Context, _ *PathRequest) (*user.Detail, error) {
	userID, err := pathID(ctx, "user")
	if err != nil {
		return nil, mapError(err)
	}

	u, err := a.svc.GetUser(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	return u, nil
}

func (a *API) createUser(ctx forge.Context, req *CreateUserRequest) (*struct{}, error) {
	roles, err := refIDs("roles", req.Roles)
	if err != nil {
		return nil, mapError(err)
	}

	u, err := a.svc.CreateUser(ctx.Context(), &user.User{
		Name:  req.Name,
		Roles: roles,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return nil, a.created(ctx, "users", u.ID)
}

func (a *API) updateUser(ctx forge.Context, req *UpdateUserRequest) (*struct{}, error) {
	userID, err := pathID(ctx, "user")
	if err != nil {
		return nil, mapError(err)
	}

	roles, err := refIDsPtr("roles", req.Roles)
	if err != nil {
		return nil, mapError(err)
	}

	err = a.svc.UpdateUser(ctx.Context(), userID, &user.Update{
		Name:  req.Name,
		Roles: roles,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deleteUser(ctx forge.Context, _ *PathRequest) (*struct{}, error) {
	userID, err := pathID(ctx, "user")
	if err != nil {
		return nil, mapError(err)
	}

	if err := a.svc.DeleteUser(ctx.Context(), userID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
