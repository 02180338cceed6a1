package pass

type CreatePassRequest struct {
	VisitorName    string `json:"visitor_name" binding:"required,max=255"`
	VisitorPhone   string `json:"visitor_phone" binding:"required,max=20"`
	VisitorEmail   string `json:"visitor_email" binding:"omitempty,email"`
	VisitorCompany string `json:"visitor_company"`
	IDType         string `json:"id_type"`
	IDNumber       string `json:"id_number"`
	VehicleNumber  string `json:"vehicle_number"`
	Purpose        string `json:"purpose"`
	// Host fields are ignored for employee callers, whose own profile is used.
	HostCompanyID  string `json:"host_company_id" binding:"omitempty,uuid"`
	HostEmployeeID string `json:"host_employee_id" binding:"omitempty,uuid"`
	PassType       string `json:"pass_type" binding:"omitempty,oneof=pre_approved recurring"`
	ValidFrom      string `json:"valid_from" binding:"required"`
	ValidUntil     string `json:"valid_until" binding:"required"`
}

type WalkInPassRequest struct {
	VisitorName    string `json:"visitor_name" binding:"required,max=255"`
	VisitorPhone   string `json:"visitor_phone" binding:"required,max=20"`
	VisitorEmail   string `json:"visitor_email" binding:"omitempty,email"`
	VisitorCompany string `json:"visitor_company"`
	IDType         string `json:"id_type"`
	IDNumber       string `json:"id_number"`
	VehicleNumber  string `json:"vehicle_number"`
	Purpose        string `json:"purpose"`
	HostCompanyID  string `json:"host_company_id" binding:"required,uuid"`
	HostEmployeeID string `json:"host_employee_id" binding:"omitempty,uuid"`
	ValidFrom      string `json:"valid_from" binding:"required"`
	ValidUntil     string `json:"valid_until" binding:"required"`
}

type RejectPassRequest struct {
	Reason string `json:"reason"`
}

type ListPassFilter struct {
	Status   string
	PassType string
}

type PassResponse struct {
	ID               string  `json:"id"`
	PassCode         string  `json:"pass_code"`
	VisitorName      string  `json:"visitor_name"`
	VisitorPhone     string  `json:"visitor_phone"`
	VisitorEmail     string  `json:"visitor_email,omitempty"`
	VisitorCompany   string  `json:"visitor_company,omitempty"`
	IDType           string  `json:"id_type,omitempty"`
	IDNumber         string  `json:"id_number,omitempty"`
	VehicleNumber    string  `json:"vehicle_number,omitempty"`
	Purpose          string  `json:"purpose,omitempty"`
	HostCompanyID    string  `json:"host_company_id"`
	HostCompanyName  string  `json:"host_company_name,omitempty"`
	HostEmployeeID   *string `json:"host_employee_id,omitempty"`
	HostEmployeeName string  `json:"host_employee_name,omitempty"`
	QRCodePath       *string `json:"qr_code_path,omitempty"`
	PassType         string  `json:"pass_type"`
	Status           string  `json:"status"`
	ValidFrom        string  `json:"valid_from"`
	ValidUntil       string  `json:"valid_until"`
	CreatedBy        *string `json:"created_by,omitempty"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	RejectedReason   string  `json:"rejected_reason,omitempty"`
}

// PassVerifyResponse is the public projection returned for a scanned pass
// code. It carries display names only, never internal ids or actor details.
type PassVerifyResponse struct {
	PassCode         string `json:"pass_code"`
	VisitorName      string `json:"visitor_name"`
	VisitorCompany   string `json:"visitor_company,omitempty"`
	HostCompanyName  string `json:"host_company_name"`
	HostEmployeeName string `json:"host_employee_name,omitempty"`
	PassType         string `json:"pass_type"`
	Status           string `json:"status"`
	ValidFrom        string `json:"valid_from"`
	ValidUntil       string `json:"valid_until"`
	Purpose          string `json:"purpose,omitempty"`
}
