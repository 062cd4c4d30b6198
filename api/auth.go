package api

import (
	"net/http"
	"strings"

	"github.com/Aidin1998/qrmenu/common/apiutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/identities"
	"github.com/Aidin1998/qrmenu/pkg/metrics"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	adminIDKey = "admin_id"
	claimsKey  = "claims"
	tokenKey   = "token"
)

var errAuthRequired = errors.Unauthorized.Explain("Authorization required")

// authMiddleware admits requests carrying a valid admin bearer token
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.writeError(c, errAuthRequired)
			return
		}
		token = strings.TrimSpace(token)

		claims, err := s.svc.Identities.ValidateToken(c.Request.Context(), token)
		if err != nil {
			s.writeError(c, err)
			return
		}
		adminID, err := claims.AdminID()
		if err != nil {
			s.writeError(c, errAuthRequired)
			return
		}
		// tokens of deleted accounts stop working immediately
		if _, err := s.svc.Identities.Session(c.Request.Context(), adminID); err != nil {
			s.writeError(c, err)
			return
		}

		c.Set(adminIDKey, adminID.String())
		c.Set(claimsKey, claims)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func currentAdmin(c *gin.Context) uuid.UUID {
	id, _ := uuid.Parse(c.GetString(adminIDKey))
	return id
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	resp, err := s.svc.Identities.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, errors.Unauthorized) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			s.logger.Warn("login failed", zap.String("username", req.Username), zap.String("ip", c.ClientIP()))
		}
		s.writeError(c, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.Set(adminIDKey, resp.Admin.ID.String())
	s.auditLog(c, "login")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) logout(c *gin.Context) {
	if err := s.svc.Identities.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "logout")
	c.Status(http.StatusNoContent)
}

func (s *Server) session(c *gin.Context) {
	admin, err := s.svc.Identities.Session(c.Request.Context(), currentAdmin(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp := gin.H{"admin": admin}
	if claims, ok := c.Get(claimsKey); ok {
		if cl, ok := claims.(*identities.Claims); ok && cl.ExpiresAt != nil {
			resp["expires_at"] = cl.ExpiresAt.Unix()
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) changePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.svc.Identities.ChangePassword(c.Request.Context(), currentAdmin(c), &req); err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "password_changed")
	c.Status(http.StatusNoContent)
}

func (s *Server) changeUsername(c *gin.Context) {
	var req models.ChangeUsernameRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	admin, err := s.svc.Identities.ChangeUsername(c.Request.Context(), currentAdmin(c), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "username_changed", zap.String("username", admin.Username))
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}
