package gate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypePedestrian = "pedestrian"
	TypeVehicle    = "vehicle"
	TypeService    = "service"
)

type Gate struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"column:name;type:varchar(100);not null"`
	Code      string         `gorm:"column:code;type:varchar(20);not null;uniqueIndex"`
	Location  string         `gorm:"column:location;type:varchar(255)"`
	GateType  string         `gorm:"column:gate_type;type:varchar(20);not null;default:pedestrian"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Gate) TableName() string {
	return "gates"
}

type GuardProfile struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BadgeNumber string     `gorm:"column:badge_number;type:varchar(50);not null;uniqueIndex"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (GuardProfile) TableName() string {
	return "guard_profiles"
}

// GuardShift is informational only; it does not restrict which gate a guard
// may operate.
type GuardShift struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	GuardID    uuid.UUID     `gorm:"column:guard_id;type:uuid;not null;index"`
	GateID     uuid.UUID     `gorm:"column:gate_id;type:uuid;not null;index"`
	ShiftStart time.Time     `gorm:"column:shift_start;type:timestamptz;not null"`
	ShiftEnd   time.Time     `gorm:"column:shift_end;type:timestamptz;not null"`
	IsActive   bool          `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at"`
	Guard      *GuardProfile `gorm:"foreignKey:GuardID;references:ID"`
	Gate       *Gate         `gorm:"foreignKey:GateID;references:ID"`
}

func (GuardShift) TableName() string {
	return "guard_shifts"
}
