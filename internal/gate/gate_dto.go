package gate

type CreateGateRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Code     string `json:"code" binding:"required,max=20"`
	Location string `json:"location"`
	GateType string `json:"gate_type" binding:"omitempty,oneof=pedestrian vehicle service"`
}

type GateResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
	GateType string `json:"gate_type"`
	IsActive bool   `json:"is_active"`
}

type GuardShiftResponse struct {
	ID          string `json:"id"`
	GuardID     string `json:"guard_id"`
	BadgeNumber string `json:"badge_number,omitempty"`
	GateID      string `json:"gate_id"`
	ShiftStart  string `json:"shift_start"`
	ShiftEnd    string `json:"shift_end"`
	IsActive    bool   `json:"is_active"`
}
