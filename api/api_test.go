package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xraph/radius"
	"github.com/xraph/radius/api"
	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/store/memory"
	"github.com/xraph/radius/user"
)

// errDriver stands in for a driver failure carrying detail that must not
// reach clients.
var errDriver = fmt.Errorf("dial tcp 10.0.0.7:27017: %w: connection refused", store.ErrUnavailable)

// downStore fails the way an unreachable backend does.
type downStore struct{ *memory.Store }

func (downStore) ListPermissions(context.Context) ([]*permission.Permission, error) {
	return nil, errDriver
}

func (downStore) GetUser(context.Context, id.UserID) (*user.User, error) {
	return nil, errDriver
}

func (downStore) CreateRole(context.Context, *role.Role) error {
	return errDriver
}

func newServer(t *testing.T, opts ...radius.Option) *httptest.Server {
	t.Helper()
	return newServerOn(t, memory.New(), opts...)
}

func newServerOn(t *testing.T, s store.Store, opts ...radius.Option) *httptest.Server {
	t.Helper()
	svc, err := radius.New(append([]radius.Option{radius.WithStore(s)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(api.New(svc, nil, "").Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+api.DefaultBasePath+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status %d, want %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want)
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

// create posts body and returns the new record's ID from the Location header.
func create(t *testing.T, srv *httptest.Server, collection, body string) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/"+collection, body)
	expectStatus(t, resp, http.StatusCreated)

	loc := resp.Header.Get("Location")
	prefix := api.DefaultBasePath + "/" + collection + "/"
	if !strings.HasPrefix(loc, prefix) {
		t.Fatalf("unexpected Location %q", loc)
	}
	return strings.TrimPrefix(loc, prefix)
}

type permissionBody struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleBody struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Permissions []permissionBody `json:"permissions"`
}

type userBody struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Roles []roleBody `json:"roles"`
}

func TestPermissionLifecycle(t *testing.T) {
	srv := newServer(t)

	pid := create(t, srv, "permissions", `{"name":"reading","description":"can read"}`)

	resp := do(t, srv, http.MethodGet, "/permissions/"+pid, "")
	expectStatus(t, resp, http.StatusOK)
	p := decode[permissionBody](t, resp)
	if p.ID != pid || p.Name != "reading" || p.Description != "can read" {
		t.Fatalf("unexpected permission %+v", p)
	}

	resp = do(t, srv, http.MethodPut, "/permissions/"+pid, `{"description":"can read docs"}`)
	expectStatus(t, resp, http.StatusNoContent)

	resp = do(t, srv, http.MethodGet, "/permissions", "")
	expectStatus(t, resp, http.StatusOK)
	list := decode[[]permissionBody](t, resp)
	if len(list) != 1 || list[0].Description != "can read docs" {
		t.Fatalf("unexpected list %+v", list)
	}

	resp = do(t, srv, http.MethodDelete, "/permissions/"+pid, "")
	expectStatus(t, resp, http.StatusNoContent)

	resp = do(t, srv, http.MethodGet, "/permissions/"+pid, "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestFaultStatusCodes(t *testing.T) {
	srv := newServer(t)
	create(t, srv, "permissions", `{"name":"reading"}`)
	down := newServerOn(t, downStore{memory.New()})
	unknown := id.New().String()

	tests := []struct {
		name   string
		srv    *httptest.Server
		method string
		path   string
		body   string
		want   int
	}{
		{"duplicate name", srv, http.MethodPost, "/permissions", `{"name":"reading"}`, http.StatusConflict},
		{"blank name", srv, http.MethodPost, "/roles", `{"name":"  "}`, http.StatusBadRequest},
		{"malformed body", srv, http.MethodPost, "/users", `{"name":`, http.StatusBadRequest},
		{"malformed reference", srv, http.MethodPost, "/roles", `{"name":"r","permissions":["nope"]}`, http.StatusBadRequest},
		{"unknown get", srv, http.MethodGet, "/users/" + unknown, "", http.StatusNotFound},
		{"malformed path id", srv, http.MethodGet, "/users/not-an-id", "", http.StatusNotFound},
		{"unknown delete", srv, http.MethodDelete, "/roles/" + unknown, "", http.StatusNotFound},
		{"upsert without name", srv, http.MethodPut, "/roles/" + unknown, `{"description":"x"}`, http.StatusBadRequest},
		{"store down on list", down, http.MethodGet, "/permissions", "", http.StatusServiceUnavailable},
		{"store down on get", down, http.MethodGet, "/users/" + unknown, "", http.StatusServiceUnavailable},
		{"store down on create", down, http.MethodPost, "/roles", `{"name":"r"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.srv, tt.method, tt.path, tt.body)
			expectStatus(t, resp, tt.want)

			body := decode[api.ErrorResponse](t, resp)
			if body.Error == "" {
				t.Fatal("expected an error message")
			}
			if body.Code != tt.want {
				t.Fatalf("body code %d, want %d", body.Code, tt.want)
			}
			if strings.Contains(body.Error, "10.0.0.7") {
				t.Fatalf("driver detail leaked: %q", body.Error)
			}
		})
	}
}

func TestUnavailableErrorMatchesSentinel(t *testing.T) {
	if !errors.Is(errDriver, radius.ErrStorageUnavailable) {
		t.Fatal("driver stub does not wrap the unavailable sentinel")
	}
}

func TestResponsesCarryOneDocument(t *testing.T) {
	srv := newServer(t)
	pid := create(t, srv, "permissions", `{"name":"reading"}`)

	for _, path := range []string{"/permissions", "/permissions/" + pid} {
		resp := do(t, srv, http.MethodGet, path, "")
		expectStatus(t, resp, http.StatusOK)

		dec := json.NewDecoder(resp.Body)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if err := dec.Decode(&v); !errors.Is(err, io.EOF) {
			t.Fatalf("%s: body holds more than one JSON document", path)
		}
	}
}

func TestOpenAPIDocument(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/openapi.json", "")
	expectStatus(t, resp, http.StatusOK)
	doc := decode[struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}](t, resp)
	if doc.OpenAPI == "" {
		t.Fatal("missing openapi version")
	}
	for _, p := range []string{"/permissions", "/roles", "/users"} {
		if _, ok := doc.Paths[api.DefaultBasePath+p]; !ok {
			t.Errorf("path %s missing from document", api.DefaultBasePath+p)
		}
	}

	resp = do(t, srv, http.MethodGet, "/docs", "")
	expectStatus(t, resp, http.StatusOK)
	page, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), api.DefaultBasePath+"/openapi.json") {
		t.Fatal("Swagger UI does not load the document")
	}
}

func TestUpsertOverHTTP(t *testing.T) {
	srv := newServer(t)
	uid := id.New().String()

	resp := do(t, srv, http.MethodPut, "/users/"+uid, `{"name":"bob"}`)
	expectStatus(t, resp, http.StatusNoContent)

	resp = do(t, srv, http.MethodGet, "/users/"+uid, "")
	expectStatus(t, resp, http.StatusOK)
	u := decode[userBody](t, resp)
	if u.ID != uid || u.Name != "bob" || u.Roles == nil || len(u.Roles) != 0 {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUpsertPolicyOffOverHTTP(t *testing.T) {
	off := false
	srv := newServer(t, radius.WithConfig(radius.Config{UpsertOnUpdate: &off}))

	resp := do(t, srv, http.MethodPut, "/users/"+id.New().String(), `{"name":"bob"}`)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestNestedResolution(t *testing.T) {
	srv := newServer(t)

	pid := create(t, srv, "permissions", `{"name":"reading"}`)
	rid := create(t, srv, "roles",
		`{"name":"reader","permissions":["`+pid+`","000000000000000000000000"]}`)
	uid := create(t, srv, "users", `{"name":"alice","roles":["`+rid+`"]}`)

	resp := do(t, srv, http.MethodGet, "/users/"+uid, "")
	expectStatus(t, resp, http.StatusOK)
	u := decode[userBody](t, resp)
	if len(u.Roles) != 1 || u.Roles[0].Name != "reader" {
		t.Fatalf("unexpected roles %+v", u.Roles)
	}
	if len(u.Roles[0].Permissions) != 1 || u.Roles[0].Permissions[0].ID != pid {
		t.Fatalf("dangling permission not dropped: %+v", u.Roles[0].Permissions)
	}

	resp = do(t, srv, http.MethodDelete, "/roles/"+rid, "")
	expectStatus(t, resp, http.StatusNoContent)

	resp = do(t, srv, http.MethodGet, "/users", "")
	expectStatus(t, resp, http.StatusOK)
	users := decode[[]userBody](t, resp)
	if len(users) != 1 || len(users[0].Roles) != 0 {
		t.Fatalf("deleted role still resolved: %+v", users)
	}
}

func TestEmptyListsAreArrays(t *testing.T) {
	srv := newServer(t)

	for _, collection := range []string{"permissions", "roles", "users"} {
		resp := do(t, srv, http.MethodGet, "/"+collection, "")
		expectStatus(t, resp, http.StatusOK)
		raw := decode[json.RawMessage](t, resp)
		if strings.TrimSpace(string(raw)) != "[]" {
			t.Fatalf("%s: expected [], got %s", collection, raw)
		}
	}
}
