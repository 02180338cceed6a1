package pass

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypePreApproved = "pre_approved"
	TypeWalkIn      = "walk_in"
	TypeRecurring   = "recurring"
)

const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusExpired    = "expired"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
)

// VisitorPass is looked up publicly by PassCode, a random 128-bit identifier;
// the row id never leaves the authenticated API.
type VisitorPass struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// Visitor info
	VisitorName    string  `gorm:"column:visitor_name;type:varchar(255);not null"`
	VisitorPhone   string  `gorm:"column:visitor_phone;type:varchar(20);not null"`
	VisitorEmail   string  `gorm:"column:visitor_email;type:varchar(255)"`
	VisitorCompany string  `gorm:"column:visitor_company;type:varchar(255)"`
	IDType         string  `gorm:"column:id_type;type:varchar(50)"`
	IDNumber       string  `gorm:"column:id_number;type:varchar(100)"`
	PhotoPath      *string `gorm:"column:photo_path;type:varchar(500)"`
	VehicleNumber  string  `gorm:"column:vehicle_number;type:varchar(20)"`
	Purpose        string  `gorm:"column:purpose;type:text"`

	// Host
	HostCompanyID  uuid.UUID  `gorm:"column:host_company_id;type:uuid;not null;index"`
	HostEmployeeID *uuid.UUID `gorm:"column:host_employee_id;type:uuid;index"`

	// Pass
	PassCode   string  `gorm:"column:pass_code;type:uuid;not null;uniqueIndex"`
	QRCodePath *string `gorm:"column:qr_code_path;type:varchar(500)"`
	PassType   string  `gorm:"column:pass_type;type:varchar(20);not null;default:pre_approved"`
	Status     string  `gorm:"column:status;type:varchar(20);not null;default:pending;index"`

	// Validity
	ValidFrom  time.Time `gorm:"column:valid_from;type:timestamptz;not null"`
	ValidUntil time.Time `gorm:"column:valid_until;type:timestamptz;not null;index"`

	// Workflow
	CreatedBy      *uuid.UUID `gorm:"column:created_by;type:uuid"`
	ApprovedBy     *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt     *time.Time `gorm:"column:approved_at;type:timestamptz"`
	RejectedReason string     `gorm:"column:rejected_reason;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	HostCompany  *CompanyRef  `gorm:"foreignKey:HostCompanyID;references:ID"`
	HostEmployee *EmployeeRef `gorm:"foreignKey:HostEmployeeID;references:ID"`
}

func (VisitorPass) TableName() string {
	return "visitor_passes"
}

type CompanyRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (CompanyRef) TableName() string {
	return "companies"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	Phone    string    `gorm:"column:phone"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
