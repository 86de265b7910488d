package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consumption-heatmap/internal/api/handlers"
	"consumption-heatmap/internal/api/models"
	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/heatmap"
	"consumption-heatmap/internal/logging"
	"consumption-heatmap/internal/observability/metrics"
	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	if l, err := logging.New("panic", "text", io.Discard); err == nil {
		logging.SetDefault(l)
	}
	metrics.Init()
}

type server struct {
	t      *testing.T
	router *gin.Engine
	cache  *data.UploadCache
}

func newServer(t *testing.T) *server {
	t.Helper()
	cache := data.NewUploadCache(time.Minute)
	t.Cleanup(cache.Close)

	svc := heatmap.New(heatmap.Settings{
		Transform:    pivot.DefaultOptions(),
		DefaultTitle: "Heatmapa spotřeby elektřiny",
		TempDir:      t.TempDir(),
	}, nil)
	r, err := NewRouter(Deps{
		Uploads: cache,
		Service: svc,
		UI: handlers.UIConfig{
			DefaultTitle:    "Heatmapa spotřeby elektřiny",
			DefaultFileName: "heatmap.html",
		},
		AllowedOrigins: []string{"https://app.example"},
		MaxUploadBytes: 1 << 20,
	})
	require.NoError(t, err)
	return &server{t: t, router: r, cache: cache}
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) upload(name string, raw []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(s.t, err)
	_, err = fw.Write(raw)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func (s *server) postJSON(path string, v any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(v)
	require.NoError(s.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *server) uploadFixture(readings []testutil.Reading) string {
	w := s.upload("spotreba.xlsx", testutil.ExportWorkbook(s.t, readings, "Souhrn"))
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.UploadResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.UploadID
}

func heatmapRequest(id string) models.HeatmapRequest {
	return models.HeatmapRequest{
		UploadID:          id,
		Sheet:             testutil.Sheet,
		TimestampColumn:   testutil.TimestampColumn,
		ConsumptionColumn: testutil.ConsumptionColumn,
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error.Code
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "heatmap_http_requests_total")
}

func TestIndexPage(t *testing.T) {
	s := newServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	page := w.Body.String()
	assert.Contains(t, page, "Generovat Heatmapu")
	assert.Contains(t, page, "Stáhnout Heatmapu")
	assert.Contains(t, page, `value="heatmap.html"`)
	assert.Contains(t, page, `value="Heatmapa spotřeby elektřiny"`)
}

func TestUploadColumnsRenderExportFlow(t *testing.T) {
	s := newServer(t)
	id := s.uploadFixture([]testutil.Reading{
		{Start: "01.03.2024 00:15:00", Value: 1.2},
		{Start: "01.03.2024 00:15:00", Value: 9.9},
		{Start: "01.03.2024 00:30:00", Value: 3.4},
		{Start: "02.03.2024 00:15:00", Value: 0.0},
	})

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+id+"/columns?sheet="+testutil.Sheet, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cols models.ColumnsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cols))
	assert.Contains(t, cols.Columns, testutil.TimestampColumn)
	assert.Contains(t, cols.Columns, testutil.ConsumptionColumn)

	w = s.postJSON("/api/v1/heatmap", heatmapRequest(id))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Message string `json:"message"`
		Title   string `json:"title"`
		Matrix  struct {
			Times []string    `json:"times"`
			Dates []string    `json:"dates"`
			Cells [][]*float64 `json:"cells"`
		} `json:"matrix"`
		Figure struct {
			Data []struct {
				Type string       `json:"type"`
				Z    [][]*float64 `json:"z"`
			} `json:"data"`
		} `json:"figure"`
		Summary struct {
			Missing int `json:"missing"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, handlers.SuccessMessage, body.Message)
	assert.Equal(t, "Heatmapa spotřeby elektřiny", body.Title)
	assert.Equal(t, []string{"00:15:00", "00:30:00"}, body.Matrix.Times)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, body.Matrix.Dates)
	require.NotNil(t, body.Matrix.Cells[0][0])
	assert.Equal(t, 1.2, *body.Matrix.Cells[0][0])
	require.NotNil(t, body.Matrix.Cells[0][1])
	assert.Equal(t, 0.0, *body.Matrix.Cells[0][1])
	assert.Nil(t, body.Matrix.Cells[1][1])
	assert.Equal(t, 1, body.Summary.Missing)
	require.Len(t, body.Figure.Data, 1)
	assert.Equal(t, "heatmap", body.Figure.Data[0].Type)
	assert.Len(t, body.Figure.Data[0].Z, 2)

	w = s.postJSON("/api/v1/heatmap/export", models.ExportRequest{
		HeatmapRequest: heatmapRequest(id),
		FileName:       "brezen.html",
		Format:         "xlsx",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "brezen.xlsx", params["filename"])
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = s.postJSON("/api/v1/heatmap/export", models.ExportRequest{HeatmapRequest: heatmapRequest(id)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "heatmap.html")
	assert.Contains(t, w.Body.String(), `id="heatmap-figure"`)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/"+id, nil)
	assert.Equal(t, http.StatusNoContent, s.do(req).Code)
	assert.Equal(t, 0, s.cache.Len())

	w = s.postJSON("/api/v1/heatmap", heatmapRequest(id))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handlers.CodeUploadNotFound, errorCode(t, w))
}

func TestRenderFailureCodes(t *testing.T) {
	s := newServer(t)
	id := s.uploadFixture([]testutil.Reading{{Start: "2024-03-01 00:15:00", Value: 1.0}})

	w := s.postJSON("/api/v1/heatmap", heatmapRequest(id))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, handlers.CodeParse, errorCode(t, w))
	assert.Contains(t, w.Body.String(), "2024-03-01 00:15:00")

	req := heatmapRequest(id)
	req.Sheet = "List9"
	w = s.postJSON("/api/v1/heatmap", req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handlers.CodeSheetNotFound, errorCode(t, w))

	req = heatmapRequest(id)
	req.ConsumptionColumn = "Spotřeba"
	w = s.postJSON("/api/v1/heatmap", req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handlers.CodeColumnNotFound, errorCode(t, w))

	req = heatmapRequest(id)
	req.Duplicates = "keep-middle"
	w = s.postJSON("/api/v1/heatmap", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handlers.CodeInvalidRequest, errorCode(t, w))

	w = s.postJSON("/api/v1/heatmap", map[string]string{"upload_id": id})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handlers.CodeInvalidRequest, errorCode(t, w))

	w = s.postJSON("/api/v1/heatmap/export", models.ExportRequest{HeatmapRequest: heatmapRequest(id), Format: "png"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmptySheetIsPivotError(t *testing.T) {
	s := newServer(t)
	id := s.uploadFixture(nil)

	w := s.postJSON("/api/v1/heatmap", heatmapRequest(id))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, handlers.CodePivot, errorCode(t, w))
}

func TestUploadRejections(t *testing.T) {
	s := newServer(t)

	w := s.upload("spotreba.xlsx", []byte("not a workbook"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handlers.CodeFileRead, errorCode(t, w))

	w = s.upload("spotreba.csv", []byte("a,b"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handlers.CodeInvalidRequest, errorCode(t, w))

	w = s.upload("big.xlsx", bytes.Repeat([]byte("x"), 2<<20))
	assert.GreaterOrEqual(t, w.Code, 400)
	assert.Equal(t, handlers.CodeInvalidRequest, errorCode(t, w))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w = s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/uploads/missing/columns?sheet=x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handlers.CodeUploadNotFound, errorCode(t, w))
}

func TestColumnsRequiresSheet(t *testing.T) {
	s := newServer(t)
	id := s.uploadFixture(nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+id+"/columns", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/heatmap", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := s.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := s.do(req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
