package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company and Employee are owned by the directory service; this backend only
// reads them for scoping and for denormalized snapshots.

type Company struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"column:name;type:varchar(255);not null"`
	Address   string         `gorm:"column:address;type:text"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Company) TableName() string {
	return "companies"
}

type Employee struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    *uuid.UUID     `gorm:"column:user_id;type:uuid;index"`
	CompanyID uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	FullName  string         `gorm:"column:full_name;type:varchar(255);not null"`
	Phone     string         `gorm:"column:phone;type:varchar(20)"`
	Email     string         `gorm:"column:email;type:varchar(255)"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Company   *Company       `gorm:"foreignKey:CompanyID;references:ID"`
}

func (Employee) TableName() string {
	return "employees"
}
