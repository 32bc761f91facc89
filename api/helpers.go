package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/radius"
	"github.com/xraph/radius/id"
)

// mapError maps domain errors to Forge HTTP errors. Storage faults and
// unexpected errors are reported without the underlying detail.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, radius.ErrNotFound):
		return forge.NotFound(err.Error())
	case errors.Is(err, radius.ErrConflict):
		return forge.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, radius.ErrNameRequired), errors.Is(err, errBadReference):
		return forge.BadRequest(err.Error())
	case errors.Is(err, radius.ErrStorageUnavailable):
		return forge.NewHTTPError(http.StatusServiceUnavailable, radius.ErrStorageUnavailable.Error())
	default:
		return forge.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

var errBadReference = errors.New("malformed reference id")

// pathID parses the :id path parameter. A malformed id names no record, so
// it is reported as not found.
func pathID(ctx forge.Context, kind string) (id.ID, error) {
	raw := ctx.Param("id")
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil, fmt.Errorf("%s %q: %w", kind, raw, radius.ErrNotFound)
	}
	return parsed, nil
}

// refIDs parses reference ids from a request body.
func refIDs(field string, raw []string) ([]id.ID, error) {
	ids, err := id.ParseAll(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", field, errBadReference, err)
	}
	return ids, nil
}

// refIDsPtr is refIDs for an optional update field.
func refIDsPtr(field string, raw *[]string) (*[]id.ID, error) {
	if raw == nil {
		return nil, nil
	}
	ids, err := refIDs(field, *raw)
	if err != nil {
		return nil, err
	}
	return &ids, nil
}

// created answers 201 with no body and a Location header for the record.
func (a *API) created(ctx forge.Context, collection string, recordID id.ID) error {
	ctx.SetHeader("Location", a.basePath+"/"+collection+"/"+recordID.String())
	return ctx.NoContent(http.StatusCreated)
}
