package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	"rollcall-backend/internal/apperr"
)

// Survey result classifications.
const (
	ResultNormal  = "NORMAL"
	ResultCaution = "CAUTION"
	ResultDanger  = "DANGER"
)

// Training statuses.
const (
	TrainingScheduled = "scheduled"
	TrainingActive    = "active"
	TrainingCompleted = "completed"
	TrainingPurged    = "purged"
)

// Exit modes.
const (
	ExitModeAuto    = "auto"
	ExitModeConfirm = "confirm"
)

// Attendance statuses.
const (
	AttendanceRegistered = "registered"
	AttendanceEntered    = "entered"
	AttendanceExited     = "exited"
)

// Question types.
const (
	QuestionYesNo          = "yes_no"
	QuestionMultipleChoice = "multiple_choice"
)

type Training struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"not null"`
	AccessCode    string     `json:"access_code" gorm:"size:10;not null;unique"`
	StartDate     time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate       time.Time  `json:"end_date" gorm:"type:date;not null"`
	Status        string     `json:"status" gorm:"default:'scheduled'"`
	ExitMode      string     `json:"exit_mode" gorm:"default:'auto'"`
	LunchImageMon string     `json:"lunch_image_mon"`
	LunchImageTue string     `json:"lunch_image_tue"`
	LunchImageWed string     `json:"lunch_image_wed"`
	LunchImageThu string     `json:"lunch_image_thu"`
	LunchImageFri string     `json:"lunch_image_fri"`
	PurgeDays     int        `json:"purge_days" gorm:"default:3"`
	AutoPurgeAt   *time.Time `json:"auto_purge_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOpen reports whether participants may still submit surveys.
func (t *Training) IsOpen() bool {
	return t.Status == TrainingScheduled || t.Status == TrainingActive
}

// Activate moves the training into active status. Completed and purged
// trainings never come back.
func (t *Training) Activate() error {
	if t.Status == TrainingCompleted || t.Status == TrainingPurged {
		return apperr.InvalidState("TRAINING_CLOSED", "종료된 훈련은 다시 시작할 수 없습니다.")
	}
	t.Status = TrainingActive
	return nil
}

// Pause moves an active training back to scheduled.
func (t *Training) Pause() error {
	if t.Status != TrainingActive {
		return apperr.InvalidState("TRAINING_NOT_ACTIVE", "진행중인 훈련만 일시정지할 수 있습니다.")
	}
	t.Status = TrainingScheduled
	return nil
}

// Complete ends an active training and stamps the auto purge deadline.
func (t *Training) Complete(now time.Time) error {
	if t.Status != TrainingActive {
		return apperr.InvalidState("TRAINING_NOT_ACTIVE", "진행중인 훈련만 종료할 수 있습니다.")
	}
	t.Status = TrainingCompleted
	purgeAt := now.AddDate(0, 0, t.PurgeDays)
	t.AutoPurgeAt = &purgeAt
	return nil
}

// LunchImageForDay returns the lunch image path for a weekday key
// (mon..fri), or "" when none is set.
func (t *Training) LunchImageForDay(day string) string {
	switch strings.ToLower(day) {
	case "mon":
		return t.LunchImageMon
	case "tue":
		return t.LunchImageTue
	case "wed":
		return t.LunchImageWed
	case "thu":
		return t.LunchImageThu
	case "fri":
		return t.LunchImageFri
	}
	return ""
}

// AnswerOption is one selectable answer of a question.
type AnswerOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	IsDanger bool   `json:"is_danger"`
}

// AnswerOptions is stored as a jsonb column.
type AnswerOptions []AnswerOption

func (o AnswerOptions) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *AnswerOptions) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for AnswerOptions")
	}
	return json.Unmarshal(data, o)
}

type Question struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	QuestionText string        `json:"question_text" gorm:"not null"`
	Description  string        `json:"description"`
	QuestionType string        `json:"question_type" gorm:"default:'yes_no'"`
	Options      AnswerOptions `json:"options" gorm:"type:jsonb;not null"`
	OrderNum     int           `json:"order_num" gorm:"default:1"`
	IsActive     bool          `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// OptionForValue returns the first option whose value matches. Duplicate
// values are not prevented by schema; first match wins.
func (q *Question) OptionForValue(value string) (AnswerOption, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return AnswerOption{}, false
}

// AnswerEntry is one frozen question+answer pair of a response snapshot.
// It survives later edits or deletion of the question it was taken from.
type AnswerEntry struct {
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text"`
	AnswerValue  string `json:"answer_value"`
	AnswerLabel  string `json:"answer_label"`
	IsDanger     bool   `json:"is_danger"`
}

// AnswerEntries is stored as a jsonb column.
type AnswerEntries []AnswerEntry

func (e AnswerEntries) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *AnswerEntries) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for AnswerEntries")
	}
	return json.Unmarshal(data, e)
}

// SurveyResponse is one participant's submission and attendance state for
// a training. DOB, phone and account number hold ciphertext at rest; the
// response service owns encryption and decryption.
type SurveyResponse struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	TrainingID       uint          `json:"training_id" gorm:"not null;uniqueIndex:idx_training_identity,priority:1"`
	Training         *Training     `json:"training,omitempty" gorm:"foreignKey:TrainingID"`
	UUID             string        `json:"uuid" gorm:"size:36;not null;unique"`
	Name             string        `json:"name" gorm:"size:100;not null"`
	DOB              string        `json:"-"`
	Phone            string        `json:"-"`
	BankName         string        `json:"bank_name" gorm:"size:50"`
	AccountNum       string        `json:"-"`
	IdentityDigest   string        `json:"-" gorm:"size:64;not null;uniqueIndex:idx_training_identity,priority:2"`
	LunchYN          bool          `json:"lunch_yn"`
	SurveyResult     string        `json:"survey_result" gorm:"size:10;not null"`
	AnswersJSON      AnswerEntries `json:"answers_json" gorm:"type:jsonb"`
	Signature        string        `json:"-" gorm:"type:text"`
	AttendanceStatus string        `json:"attendance_status" gorm:"default:'registered'"`
	EnteredAt        *time.Time    `json:"entered_at"`
	ExitedAt         *time.Time    `json:"exited_at"`
	ExitedBy         *uint         `json:"exited_by"`
	ManualOverride   bool          `json:"manual_override"`
	OverrideReason   string        `json:"override_reason" gorm:"size:500"`
	QRGeneratedAt    *time.Time    `json:"qr_generated_at"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// MarkAsEntered performs the registered→entered transition.
func (r *SurveyResponse) MarkAsEntered(now time.Time) error {
	switch r.AttendanceStatus {
	case AttendanceEntered:
		return apperr.InvalidState("ALREADY_ENTERED", "이미 입소 처리된 인원입니다.")
	case AttendanceExited:
		return apperr.InvalidState("ALREADY_EXITED", "이미 퇴소 처리된 인원입니다.")
	}
	r.AttendanceStatus = AttendanceEntered
	r.EnteredAt = &now
	return nil
}

// MarkAsExited performs the entered→exited transition. exitedBy records
// the admin who processed the exit, nil for kiosk auto exits.
func (r *SurveyResponse) MarkAsExited(now time.Time, exitedBy *uint) error {
	switch r.AttendanceStatus {
	case AttendanceRegistered:
		return apperr.InvalidState("NOT_ENTERED", "아직 입소하지 않은 인원입니다.")
	case AttendanceExited:
		return apperr.InvalidState("ALREADY_EXITED", "이미 퇴소 처리된 인원입니다.")
	}
	r.AttendanceStatus = AttendanceExited
	r.ExitedAt = &now
	r.ExitedBy = exitedBy
	return nil
}

type Admin struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:100;not null"`
	Email       string     `json:"email" gorm:"size:255;not null;unique"`
	Password    string     `json:"-" gorm:"not null"`
	Role        string     `json:"role" gorm:"size:20;default:'admin'"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Setting struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"key" gorm:"size:100;not null;unique"`
	Value       string    `json:"value"`
	Type        string    `json:"type" gorm:"size:20;default:'string'"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AuditLog struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	AdminID    *uint          `json:"admin_id"`
	Action     string         `json:"action" gorm:"size:50;not null"`
	EntityType string         `json:"entity_type" gorm:"size:50"`
	EntityID   *uint          `json:"entity_id"`
	OldValues  datatypes.JSON `json:"old_values" gorm:"type:jsonb"`
	NewValues  datatypes.JSON `json:"new_values" gorm:"type:jsonb"`
	IPAddress  string         `json:"ip_address" gorm:"size:45"`
	UserAgent  string         `json:"user_agent" gorm:"size:500"`
	CreatedAt  time.Time      `json:"created_at"`
}
