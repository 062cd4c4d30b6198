package api

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/bulk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxImportBytes = 10 << 20
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// importProducts reads the multipart "file" spreadsheet and imports it in
// the mode given by the mode query parameter.
func (s *Server) importProducts(c *gin.Context) {
	mode, err := bulk.ParseMode(c.Query("mode"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(c, errors.TooLarge.Explain("File too large (max %d bytes)", maxImportBytes))
			return
		}
		s.writeError(c, errors.Invalid.Explain("No file uploaded"))
		return
	}
	file, err := header.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer file.Close()

	rows, err := bulk.ReadXLSX(file)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.svc.Importer.Import(c.Request.Context(), rows, mode)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.svc.Media.Release(c.Request.Context(), result.RemovedImages...)

	s.auditLog(c, "products_imported",
		zap.String("mode", string(mode)),
		zap.Int("rows", len(rows)),
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", result.ErrorCount))
	c.JSON(http.StatusOK, result)
}

func (s *Server) exportProducts(c *gin.Context) {
	rows, err := s.svc.Exporter.Export(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := bulk.WriteXLSX(&buf, rows); err != nil {
		s.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("urunler-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}
