package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type UploadHandler struct {
	uploadService  *service.UploadService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewUploadHandler(uploadService *service.UploadService, maxUploadBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService:  uploadService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Preview godoc
// @Summary Preview uploaded workbook
// @Description Parse an uploaded Excel workbook and return its sheet names, dimensions and the first data rows. Nothing is persisted.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook file (.xlsx, .xlsm or .xls)"
// @Success 200 {object} domain.UploadPreviewResponse
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /upload/preview [post]
func (h *UploadHandler) Preview(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	preview, err := h.uploadService.Preview(r.Context(), data, filename)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFile) {
			respondWithError(w, http.StatusBadRequest, "File is not a readable Excel workbook")
			return
		}
		h.logger.Error("failed to preview workbook", zap.String("filename", filename), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to preview workbook")
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// Import godoc
// @Summary Import workbook sheets
// @Description Run the sheet importers for the selected sheets of an uploaded workbook. Per-row failures are reported per sheet; a bad row never aborts its sheet.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook file (.xlsx, .xlsm or .xls)"
// @Param sheets formData string true "JSON array of sheet names to import"
// @Success 200 {object} domain.UploadImportResponse
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /upload/import [post]
func (h *UploadHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	sheets, err := parseSheetSelection(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.uploadService.Import(r.Context(), data, filename, sheets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSheetsSelected):
			respondWithError(w, http.StatusBadRequest, "At least one sheet must be selected")
		case errors.Is(err, service.ErrUnsupportedFile):
			respondWithError(w, http.StatusBadRequest, "File is not a readable Excel workbook")
		default:
			h.logger.Error("failed to import workbook", zap.String("filename", filename), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to import workbook")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Sheets godoc
// @Summary List supported sheet names
// @Description List the canonical worksheet names the import pipeline understands
// @Tags Upload
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /upload/sheets [get]
func (h *UploadHandler) Sheets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.uploadService.SupportedSheets())
}

// readUpload reads the multipart "file" part, enforcing the size cap
func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit")
			return nil, "", false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid multipart request")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return nil, "", false
	}

	return data, header.Filename, true
}

// parseSheetSelection reads the sheet selection from either a JSON array in
// the "sheets" form field or repeated "sheets" values.
func parseSheetSelection(r *http.Request) ([]string, error) {
	values := r.MultipartForm.Value["sheets"]
	if len(values) == 0 {
		return nil, errors.New("sheets field is required")
	}

	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var sheets []string
		if err := json.Unmarshal([]byte(values[0]), &sheets); err != nil {
			return nil, errors.New("sheets field is not a valid JSON array")
		}
		return sheets, nil
	}
	return values, nil
}
