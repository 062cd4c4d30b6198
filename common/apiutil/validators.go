package apiutil

import (
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BindJSON decodes the request body into dst.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Invalid.Explain("Invalid request body").Wrap(err)
	}
	return nil
}

// ParamUUID parses a path parameter as an id. Malformed ids are reported
// as notFound since no entity can carry them.
func ParamUUID(c *gin.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// QueryUUID parses an optional query parameter as an id.
func QueryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.Invalid.Explain("invalid %s", name)
	}
	return &id, nil
}
