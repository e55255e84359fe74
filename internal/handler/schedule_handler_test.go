package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terp-tools/terp-scheduler-api/internal/dto"
	"github.com/terp-tools/terp-scheduler-api/internal/models"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
)

type scheduleServiceMock struct {
	captured   dto.GenerateScheduleRequest
	result     *models.ScheduleResult
	getErr     error
	deleteErr  error
	exportResp *dto.ExportScheduleResponse
	exportFile string
}

func (m *scheduleServiceMock) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*models.ScheduleResult, error) {
	m.captured = req
	return m.result, nil
}

func (m *scheduleServiceMock) Get(id string) (*models.ScheduleResult, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.result, nil
}

func (m *scheduleServiceMock) Delete(id string) error {
	return m.deleteErr
}

func (m *scheduleServiceMock) Export(ctx context.Context, id string, req dto.ExportScheduleRequest) (*dto.ExportScheduleResponse, error) {
	return m.exportResp, nil
}

func (m *scheduleServiceMock) ResolveDownload(token string) (*os.File, string, error) {
	if m.exportFile == "" {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	file, err := os.Open(m.exportFile)
	if err != nil {
		return nil, "", err
	}
	return file, filepath.Base(m.exportFile), nil
}

func sampleResult() *models.ScheduleResult {
	return &models.ScheduleResult{
		ID:              "result-1",
		RequiredCourses: []string{"CMSC131"},
		Schedules: []models.ScoredSchedule{
			{Score: 30, Sections: []models.Section{{CourseCode: "CMSC131", SectionNumber: "0101"}}},
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func performRequest(t *testing.T, handlerFunc gin.HandlerFunc, method, target string, body []byte, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	handlerFunc(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestScheduleHandlerGenerate(t *testing.T) {
	mockSvc := &scheduleServiceMock{result: sampleResult()}
	h := &ScheduleHandler{service: mockSvc}

	payload := []byte(`{"courses":["CMSC131","MATH140"],"term":"202508","preferences":{"preferMorning":true}}`)
	w := performRequest(t, h.Generate, http.MethodPost, "/schedules/generate", payload, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"CMSC131", "MATH140"}, mockSvc.captured.Courses)
	require.NotNil(t, mockSvc.captured.Preferences)
	require.NotNil(t, mockSvc.captured.Preferences.PreferMorning)
	assert.True(t, *mockSvc.captured.Preferences.PreferMorning)

	var envelope struct {
		Data models.ScheduleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "result-1", envelope.Data.ID)
}

func TestScheduleHandlerGenerateBadPayload(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{}}
	w := performRequest(t, h.Generate, http.MethodPost, "/schedules/generate", []byte(`{"courses":`), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGetNotFound(t *testing.T) {
	mockSvc := &scheduleServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "schedule result missing not found")}
	h := &ScheduleHandler{service: mockSvc}

	w := performRequest(t, h.Get, http.MethodGet, "/schedules/missing", nil, gin.Params{{Key: "id", Value: "missing"}})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerGetExpired(t *testing.T) {
	mockSvc := &scheduleServiceMock{getErr: appErrors.Clone(appErrors.ErrExpired, "schedule result expired")}
	h := &ScheduleHandler{service: mockSvc}

	w := performRequest(t, h.Get, http.MethodGet, "/schedules/old", nil, gin.Params{{Key: "id", Value: "old"}})
	require.Equal(t, http.StatusGone, w.Code)
}

func TestScheduleHandlerDelete(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{}}
	w := performRequest(t, h.Delete, http.MethodDelete, "/schedules/result-1", nil, gin.Params{{Key: "id", Value: "result-1"}})
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestScheduleHandlerExport(t *testing.T) {
	mockSvc := &scheduleServiceMock{
		result: sampleResult(),
		exportResp: &dto.ExportScheduleResponse{
			Token:     "token-1",
			URL:       "/exports/download?token=token-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	h := &ScheduleHandler{service: mockSvc}

	w := performRequest(t, h.Export, http.MethodPost, "/schedules/result-1/export", []byte(`{"format":"pdf"}`),
		gin.Params{{Key: "id", Value: "result-1"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "token-1")
}

func TestScheduleHandlerDownload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result-1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Rank,Score\n1,30.00\n"), 0o644))

	h := &ScheduleHandler{service: &scheduleServiceMock{exportFile: path}}

	w := performRequest(t, h.Download, http.MethodGet, "/exports/download?token=token-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "result-1.csv")
	assert.Contains(t, w.Body.String(), "Rank,Score")
}

func TestScheduleHandlerDownloadMissingToken(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{}}
	w := performRequest(t, h.Download, http.MethodGet, "/exports/download", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
