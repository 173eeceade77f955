package resumes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smart-resume/internal/exports"
	"smart-resume/internal/resume"
	"smart-resume/internal/shared/server/respond"
	"smart-resume/internal/shared/telemetry"
)

const (
	defaultMaxUploadBytes = 10 << 20 // 10MB
	successMessage        = "Resume parsed & scored successfully"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	MaxBytes int64
}

// NewHandler constructs a Handler. A non-positive maxBytes selects 10MB.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterRoutes attaches upload and download routes. uploadMiddleware runs
// ahead of the upload handler only.
func (h *Handler) RegisterRoutes(r gin.IRoutes, uploadMiddleware ...gin.HandlerFunc) {
	r.POST("/upload", append(uploadMiddleware, h.upload)...)
	r.GET("/download/:kind/:export_id", h.download)
}

// Downloads lists the relative paths of each stored artifact.
type Downloads struct {
	JSON string `json:"json"`
	CSV  string `json:"csv"`
	XLSX string `json:"xlsx"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	ExportID  string        `json:"export_id"`
	Downloads Downloads     `json:"downloads"`
	Data      resume.Record `json:"data"`
}

// DownloadPath returns the route serving one artifact.
func DownloadPath(kind exports.Kind, id string) string {
	return fmt.Sprintf("/download/%s/%s", kind, id)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			c.Set("stage", string(StageValidate))
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "File too large.")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}

	res, err := h.Svc.Parse(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		c.Set("stage", string(StageOf(err)))
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", "Only PDF or DOCX supported.")
		case errors.Is(err, ErrUnreadable):
			respond.Error(c, http.StatusUnprocessableEntity, "unreadable", "Could not read file.")
		case errors.Is(err, ErrNoText):
			respond.Error(c, http.StatusUnprocessableEntity, "no_text", "No text found in file.")
		case errors.Is(err, ErrAIParsing):
			respond.Error(c, http.StatusInternalServerError, "ai_error", "AI parsing error: "+causeText(err))
		case errors.Is(err, ErrSave):
			respond.Error(c, http.StatusInternalServerError, "save_error", "Save error: "+causeText(err))
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process upload")
		}
		return
	}

	c.Set("exportId", res.ExportID)
	respond.JSON(c, http.StatusOK, UploadResponse{
		Status:   "success",
		Message:  successMessage,
		ExportID: res.ExportID,
		Downloads: Downloads{
			JSON: DownloadPath(exports.KindJSON, res.ExportID),
			CSV:  DownloadPath(exports.KindCSV, res.ExportID),
			XLSX: DownloadPath(exports.KindXLSX, res.ExportID),
		},
		Data: res.Record,
	})
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("export_id")
	kind, ok := exports.ParseKind(c.Param("kind"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "Not Found")
		return
	}
	c.Set("exportId", id)

	reader, err := h.Svc.Open(c.Request.Context(), id, kind)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", notFoundDetail(kind))
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load export")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", kind.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exports.FileName(id, kind)))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		telemetry.Error("download.stream_failed", map[string]any{
			"export_id":  id,
			"kind":       string(kind),
			"error":      err,
			"request_id": c.GetString("requestId"),
		})
	}
}

func notFoundDetail(kind exports.Kind) string {
	return strings.ToUpper(string(kind)) + " not found"
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
