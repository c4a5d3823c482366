package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/services"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

const maxUploadBytes = 15 << 20

// what the document library accepts
var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type DocumentHandler struct {
	svc   services.DocumentService
	audit services.AuditService
}

func NewDocumentHandler(svc services.DocumentService, audit services.AuditService) *DocumentHandler {
	return &DocumentHandler{svc: svc, audit: audit}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	employeeID := c.Param("id")

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DocumentHandler.Upload", "missing multipart field 'file'", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	declaredType, allowed := allowedExtensions[ext]
	if !allowed {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DocumentHandler.Upload", "file type is not allowed", nil))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DocumentHandler.Upload", "file is empty", nil))
		return
	}
	if fh.Size > maxUploadBytes {
		writeError(c, utils.E(utils.CodeTooLarge, "DocumentHandler.Upload", "file too large (max 15MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "DocumentHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	sniffed := http.DetectContentType(head)
	if !mimeMatches(sniffed, declaredType) {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DocumentHandler.Upload",
			fmt.Sprintf("file content (%s) does not match its extension", sniffed), nil))
		return
	}

	// re-compose stream: head + remaining file
	r := io.MultiReader(bytes.NewReader(head), file)

	in := services.UploadInput{
		EmployeeID:   employeeID,
		DocumentType: c.PostForm("document_type"),
		FileName:     fh.Filename,
		FileSize:     fh.Size,
		MimeType:     declaredType,
		ObjectName:   "documents/" + employeeID + "/" + uuid.NewString() + ext,
		UploadedBy:   userID,
		Notes:        c.PostForm("notes"),
	}
	if tags := c.PostForm("tags"); tags != "" {
		in.Tags = strings.Split(tags, ",")
	}
	if in.DocumentType == "" {
		in.DocumentType = "other"
	}

	row, err := h.svc.Upload(c.Request.Context(), in, r)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), userID, "create", "document", row.ID, c.ClientIP(),
		gin.H{"employee_id": employeeID, "file_name": row.FileName})
	c.JSON(http.StatusCreated, row)
}

func (h *DocumentHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)

	rows, total, err := h.svc.List(c.Request.Context(), pgrepo.DocumentListParams{
		EmployeeID:   c.Query("employee_id"),
		DocumentType: c.Query("type"),
		Search:       c.Query("search"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(rows, total))
}

func (h *DocumentHandler) SignedURL(c *gin.Context) {
	url, err := h.svc.SignedURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *DocumentHandler) Download(c *gin.Context) {
	doc, rc, err := h.svc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Content-Type", doc.MimeType)
	if doc.FileSize > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", doc.FileSize))
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), userID, "delete", "document", id, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// DetectContentType never reports office formats precisely; a zip container
// is good enough for docx/xlsx.
func mimeMatches(sniffed, declared string) bool {
	if sniffed == declared {
		return true
	}
	switch declared {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return strings.HasPrefix(sniffed, "application/zip")
	case "application/msword", "application/vnd.ms-excel":
		return strings.HasPrefix(sniffed, "application/") // legacy OLE containers sniff as octet-stream
	}
	return false
}
