package service

import (
	"encoding/json"

	"gorm.io/datatypes"

	logger "rollcall-backend/pkg/logging"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	"rollcall-backend/utilities"
)

// EventAudit is the bus topic audit entries are published on.
const EventAudit = "audit"

// AuditEvent is the payload services publish when something worth
// tracing happens.
type AuditEvent struct {
	AdminID    *uint
	Action     string
	EntityType string
	EntityID   *uint
	OldValues  interface{}
	NewValues  interface{}
	IPAddress  string
	UserAgent  string
}

// InitAuditEventListeners subscribes the audit trail writer. Writes
// happen off the request path; a lost entry is logged, never fatal.
func InitAuditEventListeners(auditRepo repository.AuditRepository) {
	utilities.GlobalEventBus.Subscribe(EventAudit, func(data interface{}) {
		ev, ok := data.(AuditEvent)
		if !ok {
			logger.Warn("audit listener received unexpected payload %T", data)
			return
		}

		entry := &model.AuditLog{
			AdminID:    ev.AdminID,
			Action:     ev.Action,
			EntityType: ev.EntityType,
			EntityID:   ev.EntityID,
			IPAddress:  ev.IPAddress,
			UserAgent:  ev.UserAgent,
		}
		entry.OldValues = marshalValues(ev.OldValues)
		entry.NewValues = marshalValues(ev.NewValues)

		if err := auditRepo.Create(entry); err != nil {
			logger.Error("failed to write audit entry %s/%s: %v", ev.Action, ev.EntityType, err)
		}
	})
}

// Audit publishes an audit event on the global bus.
func Audit(ev AuditEvent) {
	utilities.GlobalEventBus.Publish(EventAudit, ev)
}

func marshalValues(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
