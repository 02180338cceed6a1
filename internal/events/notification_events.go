package events

import "time"

const NotificationTopic = "gatepass.notifications.v1"

const (
	EventPassApproved     = "pass.approved"
	EventVisitorCheckedIn = "visitor.checked_in"
	EventDeliveryArrived  = "delivery.arrived"
)

// PassApprovedEvent notifies the visitor that their pass is ready. The
// consumer resolves the channel: SMS when a phone is present, email when an
// email address is present.
type PassApprovedEvent struct {
	EventType    string    `json:"event_type"`
	PassID       string    `json:"pass_id"`
	PassCode     string    `json:"pass_code"`
	VisitorName  string    `json:"visitor_name"`
	VisitorPhone string    `json:"visitor_phone"`
	VisitorEmail string    `json:"visitor_email"`
	CompanyName  string    `json:"company_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// VisitorCheckedInEvent notifies the host employee that their visitor is at
// the gate.
type VisitorCheckedInEvent struct {
	EventType   string    `json:"event_type"`
	PassID      string    `json:"pass_id"`
	VisitorName string    `json:"visitor_name"`
	HostPhone   string    `json:"host_phone"`
	GateName    string    `json:"gate_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// DeliveryArrivedEvent notifies the employee that a delivery is waiting and
// carries the OTP they must relay to the guard.
type DeliveryArrivedEvent struct {
	EventType     string    `json:"event_type"`
	DeliveryID    string    `json:"delivery_id"`
	DeliveryType  string    `json:"delivery_type"`
	PlatformName  string    `json:"platform_name"`
	OTPCode       string    `json:"otp_code"`
	EmployeePhone string    `json:"employee_phone"`
	OccurredAt    time.Time `json:"occurred_at"`
}
