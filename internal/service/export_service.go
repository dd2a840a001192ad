package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	"rollcall-backend/utilities"
)

type ExportService interface {
	// ExportCSV renders the filtered responses as a spreadsheet-ready
	// CSV (UTF-8 BOM so spreadsheet apps pick up the encoding).
	ExportCSV(f repository.ResponseFilter) ([]byte, string, error)
	// ExportPDF renders a printable attendance roster.
	ExportPDF(f repository.ResponseFilter) ([]byte, string, error)
}

type exportService struct {
	responseRepo repository.ResponseRepository
	cipher       *utilities.FieldCipher
}

func NewExportService(responseRepo repository.ResponseRepository, cipher *utilities.FieldCipher) ExportService {
	return &exportService{responseRepo: responseRepo, cipher: cipher}
}

func attendanceStatusText(status string) string {
	switch status {
	case model.AttendanceRegistered:
		return "대기"
	case model.AttendanceEntered:
		return "입소"
	case model.AttendanceExited:
		return "퇴소"
	}
	return status
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func (s *exportService) decrypted(value string) string {
	if plain := s.cipher.DecryptOrNil(value); plain != nil {
		return *plain
	}
	return ""
}

func (s *exportService) ExportCSV(f repository.ResponseFilter) ([]byte, string, error) {
	f.Page = 0
	f.PerPage = 0
	responses, _, err := s.responseRepo.Search(f)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)

	header := []string{"이름", "생년월일", "연락처", "은행", "계좌번호", "중식신청", "결과", "상태", "훈련명", "입소시간", "퇴소시간", "등록일시"}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for i := range responses {
		r := &responses[i]
		lunch := "X"
		if r.LunchYN {
			lunch = "O"
		}
		trainingName := "-"
		if r.Training != nil {
			trainingName = r.Training.Name
		}
		record := []string{
			r.Name,
			s.decrypted(r.DOB),
			s.decrypted(r.Phone),
			r.BankName,
			s.decrypted(r.AccountNum),
			lunch,
			r.SurveyResult,
			attendanceStatusText(r.AttendanceStatus),
			trainingName,
			formatTime(r.EnteredAt),
			formatTime(r.ExitedAt),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("responses_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func (s *exportService) ExportPDF(f repository.ResponseFilter) ([]byte, string, error) {
	f.Page = 0
	f.PerPage = 0
	responses, _, err := s.responseRepo.Search(f)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()
	pdf.Cell(120, 10, "Attendance Roster")
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 10, time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(14)

	widths := []float64{50, 30, 25, 30, 40, 40, 40}
	headers := []string{"Name", "Result", "Status", "Lunch", "Entered", "Exited", "Registered"}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i := range responses {
		r := &responses[i]
		lunch := "-"
		if r.LunchYN {
			lunch = "O"
		}
		row := []string{
			r.Name,
			r.SurveyResult,
			r.AttendanceStatus,
			lunch,
			formatTime(r.EnteredAt),
			formatTime(r.ExitedAt),
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for j, cell := range row {
			pdf.CellFormat(widths[j], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("roster_%s.pdf", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
