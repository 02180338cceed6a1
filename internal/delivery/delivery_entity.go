package delivery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeFoodOrder = "food_order"
	TypeCourier   = "courier"
	TypeDocument  = "document"
	TypeOther     = "other"
)

const (
	StatusExpected  = "expected"
	StatusArrived   = "arrived"
	StatusDelivered = "delivered"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Delivery struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index"`

	DeliveryType string `gorm:"column:delivery_type;type:varchar(20);not null;default:food_order"`
	Status       string `gorm:"column:status;type:varchar(20);not null;default:expected;index"`

	PlatformName        string     `gorm:"column:platform_name;type:varchar(100)"`
	OrderID             string     `gorm:"column:order_id;type:varchar(100)"`
	DeliveryPersonName  string     `gorm:"column:delivery_person_name;type:varchar(255)"`
	DeliveryPersonPhone string     `gorm:"column:delivery_person_phone;type:varchar(20)"`
	ExpectedAt          *time.Time `gorm:"column:expected_at;type:timestamptz"`

	// OTPCode is generated once at creation and never regenerated.
	OTPCode string `gorm:"column:otp_code;type:varchar(6);not null"`
	Notes   string `gorm:"column:notes;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Company  *CompanyRef  `gorm:"foreignKey:CompanyID;references:ID"`
	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Delivery) TableName() string {
	return "deliveries"
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
