package audit

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"timetracker/internal/models"
)

// Entry описывает одно действие для журнала аудита.
type Entry struct {
	UserID     *uint
	Action     string // "project.created", "user.role_changed" и т.п.
	EntityType string
	EntityID   uint
	OldValue   any
	NewValue   any
	IPAddress  string
	UserAgent  string
	RequestID  string
}

// Recorder пишет журнал аудита. Ошибка записи никогда не прерывает
// основную операцию: логируем и идём дальше.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(e Entry) {
	if r == nil || r.db == nil {
		return
	}
	record := models.AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldValue:   marshal(e.OldValue),
		NewValue:   marshal(e.NewValue),
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		RequestID:  e.RequestID,
	}
	if err := r.db.Create(&record).Error; err != nil {
		log.Printf("audit: failed to record %s: %v", e.Action, err)
	}
}

func marshal(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
