package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

type Notification struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientPhone string     `gorm:"column:recipient_phone;type:varchar(20)"`
	RecipientEmail string     `gorm:"column:recipient_email;type:varchar(255)"`
	Channel        string     `gorm:"column:channel;type:varchar(10);not null"`
	Subject        string     `gorm:"column:subject;type:varchar(255)"`
	Message        string     `gorm:"column:message;type:text;not null"`
	Status         string     `gorm:"column:status;type:varchar(10);not null;default:pending;index"`
	ErrorMessage   string     `gorm:"column:error_message;type:text"`
	SentAt         *time.Time `gorm:"column:sent_at;type:timestamptz"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
