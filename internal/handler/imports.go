package handler

import (
	"errors"
	"net/http"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/importer"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ImportsHandler struct {
	svc      service.ImportService
	maxBytes int64
}

func NewImportsHandler(svc service.ImportService, maxBytes int64) *ImportsHandler {
	return &ImportsHandler{svc: svc, maxBytes: maxBytes}
}

// BulkImport accepts a multipart upload (single "file" field) of a workbook
// or delimited text file and imports its rows. Parsing and validation
// problems are collected and returned together: one edit-and-retry cycle
// fixes everything.
func (h *ImportsHandler) BulkImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge,
				apierror.New("Upload exceeds the size limit"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("A single 'file' field is required"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
		return
	}
	defer f.Close()

	profile := importer.Profile(c.DefaultPostForm("profile", string(importer.ProfileStandard)))

	resp, err := h.svc.Import(c.Request.Context(), f,
		fileHeader.Header.Get("Content-Type"), fileHeader.Filename, profile)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnsupportedFormat):
			c.JSON(http.StatusBadRequest, apierror.WithDetails(
				"Unsupported file format",
				"upload a .xlsx, .xls, .csv or .tsv file"))
		case errors.Is(err, importer.ErrEmptyWorkbook), errors.Is(err, importer.ErrEmptyFile):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		default:
			log.Error().Err(err).Str("file", fileHeader.Filename).Msg("bulk import failed")
			c.JSON(http.StatusInternalServerError, apierror.New("Import failed"))
		}
		return
	}

	// Nothing imported at all: surface the cause with the right status.
	if resp.Count == 0 {
		if len(resp.ValidationErrors) > 0 {
			c.JSON(http.StatusBadRequest, apierror.WithDetails(
				"No rows passed validation", resp.ValidationErrors))
			return
		}
		if resp.Failed > 0 {
			c.JSON(http.StatusInternalServerError, apierror.WithDetails(
				"No rows could be persisted", resp.Errors))
			return
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// DownloadTemplate emits a one-example-row workbook with the canonical column
// names, for users to fill in before uploading.
func (h *ImportsHandler) DownloadTemplate(c *gin.Context) {
	f, err := importer.BuildTemplate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not generate template"))
		return
	}
	defer f.Close()

	filename := "inventory_import_template_" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to stream template")
	}
}
