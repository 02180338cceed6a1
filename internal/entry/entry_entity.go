package entry

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeVisitor  = "visitor"
	TypeDelivery = "delivery"
)

// EntryLog is a self-contained admission record. Visitor identity is copied
// in at check-in so the row stays readable after the source pass or delivery
// is altered or deleted; the references are nullable for the same reason.
type EntryLog struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`

	EntryType     string     `gorm:"column:entry_type;type:varchar(20);not null"`
	VisitorPassID *uuid.UUID `gorm:"column:visitor_pass_id;type:uuid;index"`
	DeliveryID    *uuid.UUID `gorm:"column:delivery_id;type:uuid;index"`

	// Snapshot fields, copied at check-in.
	VisitorName string `gorm:"column:visitor_name;type:varchar(255);not null"`
	Phone       string `gorm:"column:phone;type:varchar(20)"`
	CompanyName string `gorm:"column:company_name;type:varchar(255)"`

	GateID       *uuid.UUID `gorm:"column:gate_id;type:uuid;index"`
	CheckedInBy  *uuid.UUID `gorm:"column:checked_in_by;type:uuid"`
	CheckedOutBy *uuid.UUID `gorm:"column:checked_out_by;type:uuid"`

	CheckInTime  time.Time  `gorm:"column:check_in_time;type:timestamptz;not null"`
	CheckOutTime *time.Time `gorm:"column:check_out_time;type:timestamptz;index"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Gate *GateRef `gorm:"foreignKey:GateID;references:ID"`
}

func (EntryLog) TableName() string {
	return "entry_logs"
}

type GateRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
	Code string    `gorm:"column:code"`
}

func (GateRef) TableName() string {
	return "gates"
}
