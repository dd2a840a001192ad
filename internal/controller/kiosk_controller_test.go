package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/service"
)

type stubAttendance struct {
	outcome *service.ScanOutcome
	err     error
}

func (s *stubAttendance) Scan(trainingID uint, uuidStr string) (*service.ScanOutcome, error) {
	return s.outcome, s.err
}

func (s *stubAttendance) ConfirmExit(uuidStr string, exitedBy *uint) (*service.ScanOutcome, error) {
	return s.outcome, s.err
}

func (s *stubAttendance) ExitScan(trainingID uint, uuidStr string) (*service.ExitInfo, error) {
	return nil, s.err
}

func scanRequest(t *testing.T, attendance service.AttendanceService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewKioskController(attendance)
	r.POST("/api/kiosk/scan", ctrl.Scan)

	req := httptest.NewRequest(http.MethodPost, "/api/kiosk/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScanSuccessEnvelope(t *testing.T) {
	attendance := &stubAttendance{outcome: &service.ScanOutcome{
		UUID:   "uuid-1",
		Name:   "김예비",
		Action: service.ActionEntry,
	}}

	w := scanRequest(t, attendance, `{"training_id":1,"uuid":"uuid-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Success bool                `json:"success"`
		Data    service.ScanOutcome `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Action != service.ActionEntry {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestScanErrorEnvelope(t *testing.T) {
	attendance := &stubAttendance{err: apperr.InvalidState("ALREADY_EXITED", "이미 퇴소 처리된 예비군입니다.")}

	w := scanRequest(t, attendance, `{"training_id":1,"uuid":"uuid-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error.Code != "ALREADY_EXITED" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestScanRejectsBadPayload(t *testing.T) {
	w := scanRequest(t, &stubAttendance{}, `{"training_id":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"VALIDATION"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
