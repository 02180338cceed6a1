package notification

type ListNotificationFilter struct {
	Channel string
	Status  string
}

type NotificationResponse struct {
	ID             string  `json:"id"`
	RecipientPhone string  `json:"recipient_phone,omitempty"`
	RecipientEmail string  `json:"recipient_email,omitempty"`
	Channel        string  `json:"channel"`
	Subject        string  `json:"subject,omitempty"`
	Message        string  `json:"message"`
	Status         string  `json:"status"`
	ErrorMessage   string  `json:"error_message,omitempty"`
	SentAt         *string `json:"sent_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
