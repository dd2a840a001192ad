package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
)

func TestExportCSV(t *testing.T) {
	cipher := testCipher(t)
	entered := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	resp := storedResponse(t, cipher)
	resp.LunchYN = true
	resp.AttendanceStatus = model.AttendanceEntered
	resp.EnteredAt = &entered
	resp.Training = &model.Training{Name: "2026년 1차 동원훈련"}

	svc := NewExportService(newStubResponseRepo(resp), cipher)

	data, filename, err := svc.ExportCSV(repository.ResponseFilter{TrainingID: 1})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.HasPrefix(filename, "responses_") || !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")) {
		t.Fatalf("missing UTF-8 BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF")))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	if records[0][0] != "이름" || records[0][6] != "결과" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "김예비" || row[1] != "900101" || row[2] != "01012345678" {
		t.Fatalf("identity columns not decrypted: %v", row)
	}
	if row[5] != "O" || row[7] != "입소" || row[8] != "2026년 1차 동원훈련" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[9] != "2026-09-07 09:00:00" || row[10] != "-" {
		t.Fatalf("time columns wrong: %v", row)
	}
}

func TestExportCSVLeavesCorruptFieldsBlank(t *testing.T) {
	cipher := testCipher(t)
	resp := storedResponse(t, cipher)
	resp.DOB = "not-ciphertext"

	svc := NewExportService(newStubResponseRepo(resp), cipher)

	data, _, err := svc.ExportCSV(repository.ResponseFilter{})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF")))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if records[1][1] != "" {
		t.Fatalf("corrupt dob exported as %q, want blank", records[1][1])
	}
}

func TestExportPDF(t *testing.T) {
	cipher := testCipher(t)
	svc := NewExportService(newStubResponseRepo(storedResponse(t, cipher)), cipher)

	data, filename, err := svc.ExportPDF(repository.ResponseFilter{})
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if !strings.HasPrefix(filename, "roster_") || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}
