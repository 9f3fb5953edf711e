package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/service"
)

// multipartBody builds a multipart form, optionally with a "file" part and
// any number of "sheets" values.
func multipartBody(t *testing.T, fileBytes []byte, sheetValues ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileBytes != nil {
		fw, err := mw.CreateFormFile("file", "workbook.xlsx")
		require.NoError(t, err)
		_, err = fw.Write(fileBytes)
		require.NoError(t, err)
	}
	for _, v := range sheetValues {
		require.NoError(t, mw.WriteField("sheets", v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) domain.APIError {
	t.Helper()
	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

// The size-cap and missing-field paths reject before the service is
// touched, so the handler can run without one.
func newUploadHandler(maxUploadBytes int64) *UploadHandler {
	return NewUploadHandler(nil, maxUploadBytes, zap.NewNop())
}

func TestUploadHandler_RejectsOversizedUpload(t *testing.T) {
	h := newUploadHandler(1024)

	body, contentType := multipartBody(t, bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Preview(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "size limit")
}

func TestUploadHandler_MissingFileField(t *testing.T) {
	h := newUploadHandler(1 << 20)

	body, contentType := multipartBody(t, nil, "Job Status")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing file field", decodeAPIError(t, rec).Detail)
}

func TestUploadHandler_InvalidMultipart(t *testing.T) {
	h := newUploadHandler(1 << 20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/preview", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Preview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid multipart request", decodeAPIError(t, rec).Detail)
}

func TestParseSheetSelection(t *testing.T) {
	build := func(sheetValues ...string) *http.Request {
		body, contentType := multipartBody(t, []byte("stub"), sheetValues...)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/import", body)
		req.Header.Set("Content-Type", contentType)
		require.NoError(t, req.ParseMultipartForm(1<<20))
		return req
	}

	// A single JSON array value carries the whole selection.
	sheets, err := parseSheetSelection(build(`["Job Status", "Staff SOT"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Job Status", "Staff SOT"}, sheets)

	// Repeated form values work too.
	sheets, err = parseSheetSelection(build("Job Status", "Staff SOT"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Job Status", "Staff SOT"}, sheets)

	// A single plain value is a one-sheet selection, not JSON.
	sheets, err = parseSheetSelection(build("Job Status"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Job Status"}, sheets)

	_, err = parseSheetSelection(build())
	assert.EqualError(t, err, "sheets field is required")

	_, err = parseSheetSelection(build(`["Job Status"`))
	assert.EqualError(t, err, "sheets field is not a valid JSON array")
}

func TestUploadHandler_Sheets(t *testing.T) {
	svc := service.NewUploadService(nil, nil, nil, nil, zap.NewNop())
	h := NewUploadHandler(svc, 1<<20, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/upload/sheets", nil)
	rec := httptest.NewRecorder()

	h.Sheets(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&names))
	assert.Contains(t, names, "Job Status")
	assert.Contains(t, names, "Resource Cost A&F")
}
