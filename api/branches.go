package api

import (
	"net/http"

	"github.com/Aidin1998/qrmenu/common/apiutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/branches"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errBranchNotFound = errors.NotFound.Explain("Branch not found")

func (s *Server) listBranches(c *gin.Context) {
	s.respondBranches(c, false)
}

func (s *Server) adminListBranches(c *gin.Context) {
	s.respondBranches(c, true)
}

func (s *Server) respondBranches(c *gin.Context, includeInactive bool) {
	list, err := s.svc.Branches.List(c.Request.Context(), includeInactive)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getBranch(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errBranchNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	branch, err := s.svc.Branches.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

func (s *Server) getBranchBySubdomain(c *gin.Context) {
	branch, err := s.svc.Branches.GetBySubdomain(c.Request.Context(), c.Param("subdomain"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

// detectBranch resolves the branch addressed by the request host. Proxies
// pass the original host in X-Forwarded-Host.
func (s *Server) detectBranch(c *gin.Context) {
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	detection, err := s.svc.Branches.Detect(c.Request.Context(), host)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if detection.Status == branches.DetectionNotFound {
		s.writeError(c, errBranchNotFound)
		return
	}
	c.JSON(http.StatusOK, detection)
}

func (s *Server) createBranch(c *gin.Context) {
	var in models.BranchInput
	if err := apiutil.BindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	branch, err := s.svc.Branches.Create(c.Request.Context(), &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "branch_created", zap.String("branch_id", branch.ID.String()))
	c.JSON(http.StatusCreated, branch)
}

func (s *Server) updateBranch(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errBranchNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var in models.BranchInput
	if err := apiutil.BindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	branch, err := s.svc.Branches.Update(c.Request.Context(), id, &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "branch_updated", zap.String("branch_id", id.String()))
	c.JSON(http.StatusOK, branch)
}

func (s *Server) deleteBranch(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errBranchNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.svc.Branches.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "branch_deleted", zap.String("branch_id", id.String()))
	c.Status(http.StatusNoContent)
}
