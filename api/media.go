package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/Aidin1998/qrmenu/common/apiutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/media"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead is allowed on top of the file size for form fields.
const multipartOverhead = 64 << 10

// uploadImage stores the multipart "image" field. Optional "filename" and
// "kind" fields control the stored name.
func (s *Server) uploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.svc.Media.MaxBytes()+multipartOverhead)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(c, errors.TooLarge.Explain("File too large (max %d bytes)", s.svc.Media.MaxBytes()))
			return
		}
		s.writeError(c, errors.Invalid.Explain("No file uploaded"))
		return
	}
	if header.Size > s.svc.Media.MaxBytes() {
		s.writeError(c, errors.TooLarge.Explain("File too large (max %d bytes)", s.svc.Media.MaxBytes()))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer file.Close()

	image, err := s.svc.Media.Save(c.Request.Context(), media.Upload{
		Kind:         c.PostForm("kind"),
		Filename:     c.PostForm("filename"),
		OriginalName: header.Filename,
		Body:         file,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	url := media.URL(s.baseURL(c), image.Filename)
	s.auditLog(c, "image_uploaded", zap.String("filename", image.Filename))
	c.JSON(http.StatusOK, gin.H{"url": url, "filename": image.Filename})
}

func (s *Server) deleteImage(c *gin.Context) {
	var req models.MediaDeleteRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	target := req.URL
	if target == "" {
		target = req.Filename
	}
	if strings.TrimSpace(target) == "" {
		s.writeError(c, errors.Invalid.Explain("No URL provided"))
		return
	}

	if err := s.svc.Media.Delete(c.Request.Context(), target); err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "image_deleted", zap.String("target", target))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) serveImage(c *gin.Context) {
	file, info, err := s.svc.Media.Open(c.Param("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer file.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

// baseURL is the configured public address or the one the request came in on.
func (s *Server) baseURL(c *gin.Context) string {
	if s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL
	}
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return scheme + "://" + host
}
