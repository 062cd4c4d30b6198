package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Aidin1998/qrmenu/common/apiutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getSettings returns the folded settings; with branch_id the branch's own
// values win key by key over the global ones.
func (s *Server) getSettings(c *gin.Context) {
	branchID, err := apiutil.QueryUUID(c, "branch_id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	values, err := s.svc.Settings.Get(c.Request.Context(), branchID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (s *Server) updateSettings(c *gin.Context) {
	branchID, err := apiutil.QueryUUID(c, "branch_id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var body map[string]any
	if err := apiutil.BindJSON(c, &body); err != nil {
		s.writeError(c, err)
		return
	}
	values, err := settingValues(body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	folded, err := s.svc.Settings.Update(c.Request.Context(), branchID, values)
	if err != nil {
		s.writeError(c, err)
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	fields := []zap.Field{zap.Strings("keys", keys)}
	if branchID != nil {
		fields = append(fields, zap.String("branch_id", branchID.String()))
	}
	s.auditLog(c, "settings_updated", fields...)
	c.JSON(http.StatusOK, folded)
}

// settingValues accepts numbers and booleans from clients that send typed
// JSON and stores them as text.
func settingValues(body map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(body))
	for key, raw := range body {
		switch v := raw.(type) {
		case string:
			values[key] = v
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			values[key] = strconv.FormatBool(v)
		case json.Number:
			values[key] = v.String()
		default:
			return nil, errors.Invalid.Explain("%s: value must be a string or number", key)
		}
	}
	return values, nil
}
