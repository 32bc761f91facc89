// Package api exposes the Radius service over HTTP with a Forge router.
//
// Every collection offers the same five routes under the base path:
//
//	GET    /permissions       list, references resolved
//	GET    /permissions/:id   one record
//	POST   /permissions       create; 201 with a Location header
//	PUT    /permissions/:id   partial update or upsert; 204
//	DELETE /permissions/:id   delete; 204
//
// and likewise for /roles and /users. Faults are answered with a JSON body
// of the form {"error": "...", "code": 404}. When the API builds its own
// router, the OpenAPI document is served at <base>/openapi.json and the
// Swagger UI at <base>/docs.
package api

import (
	"net/http"
	"strings"

	"github.com/xraph/forge"

	"github.com/xraph/radius"
)

// DefaultBasePath is the prefix used when none is configured.
const DefaultBasePath = "/api/v1"

// API wires all Radius HTTP handlers together.
type API struct {
	svc      *radius.Service
	router   forge.Router
	basePath string
}

// New creates an API from a service and a Forge router. A nil router is
// replaced by a fresh one when Handler is called. An empty basePath means
// DefaultBasePath.
func New(svc *radius.Service, router forge.Router, basePath string) *API {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &API{svc: svc, router: router, basePath: "/" + strings.Trim(basePath, "/")}
}

// BasePath returns the normalized prefix every route is mounted under.
func (a *API) BasePath() string { return a.basePath }

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter(forge.WithOpenAPI(a.openAPIConfig()))
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("radius: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// openAPIConfig serves the document and Swagger UI under the base path.
func (a *API) openAPIConfig() forge.OpenAPIConfig {
	return forge.OpenAPIConfig{
		Title:       "Radius",
		Description: "Role-based access control management: permissions, roles and users.",
		Version:     "1.0.0",
		UIPath:      a.basePath + "/docs",
		SpecPath:    a.basePath + "/openapi.json",
		UIEnabled:   true,
		SpecEnabled: true,
		PrettyJSON:  true,
		Tags: []forge.OpenAPITag{
			{Name: "permissions", Description: "Named capabilities"},
			{Name: "roles", Description: "Groups of permissions"},
			{Name: "users", Description: "Principals holding roles"},
		},
	}
}

// RegisterRoutes registers all API routes into the given Forge router.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{
		a.registerPermissionRoutes,
		a.registerRoleRoutes,
		a.registerUserRoutes,
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}
