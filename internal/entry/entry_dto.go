package entry

type CheckInRequest struct {
	GateID string `json:"gate_id" binding:"required,uuid"`
	// Exactly one of the two must be set.
	PassCode   string `json:"pass_code" binding:"omitempty,uuid"`
	DeliveryID string `json:"delivery_id" binding:"omitempty,uuid"`
}

type ListEntryFilter struct {
	EntryType string
	GateID    string
	OpenOnly  bool
}

type EntryResponse struct {
	ID            string  `json:"id"`
	EntryType     string  `json:"entry_type"`
	VisitorPassID *string `json:"visitor_pass_id,omitempty"`
	DeliveryID    *string `json:"delivery_id,omitempty"`
	VisitorName   string  `json:"visitor_name"`
	Phone         string  `json:"phone,omitempty"`
	CompanyName   string  `json:"company_name,omitempty"`
	GateID        *string `json:"gate_id,omitempty"`
	GateName      string  `json:"gate_name,omitempty"`
	CheckInTime   string  `json:"check_in_time"`
	CheckOutTime  *string `json:"check_out_time,omitempty"`
}
