package delivery

type CreateDeliveryRequest struct {
	// Employee/company are ignored for employee callers, whose own profile
	// is used.
	EmployeeID          string `json:"employee_id" binding:"omitempty,uuid"`
	CompanyID           string `json:"company_id" binding:"omitempty,uuid"`
	DeliveryType        string `json:"delivery_type" binding:"omitempty,oneof=food_order courier document other"`
	PlatformName        string `json:"platform_name" binding:"max=100"`
	OrderID             string `json:"order_id" binding:"max=100"`
	DeliveryPersonName  string `json:"delivery_person_name" binding:"max=255"`
	DeliveryPersonPhone string `json:"delivery_person_phone" binding:"max=20"`
	ExpectedAt          string `json:"expected_at"`
	Notes               string `json:"notes"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

type VerifyOTPResponse struct {
	Verified bool `json:"verified"`
}

type ListDeliveryFilter struct {
	Status       string
	DeliveryType string
}

type DeliveryResponse struct {
	ID                  string  `json:"id"`
	CompanyID           string  `json:"company_id"`
	CompanyName         string  `json:"company_name,omitempty"`
	EmployeeID          string  `json:"employee_id"`
	EmployeeName        string  `json:"employee_name,omitempty"`
	DeliveryType        string  `json:"delivery_type"`
	Status              string  `json:"status"`
	PlatformName        string  `json:"platform_name,omitempty"`
	OrderID             string  `json:"order_id,omitempty"`
	DeliveryPersonName  string  `json:"delivery_person_name,omitempty"`
	DeliveryPersonPhone string  `json:"delivery_person_phone,omitempty"`
	ExpectedAt          *string `json:"expected_at,omitempty"`
	OTPCode             string  `json:"otp_code,omitempty"`
	Notes               string  `json:"notes,omitempty"`
}

// DeliveryGateResponse is the guard-facing projection; it never carries the
// OTP, which only the receiving employee knows.
type DeliveryGateResponse struct {
	ID                 string  `json:"id"`
	CompanyName        string  `json:"company_name,omitempty"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	DeliveryType       string  `json:"delivery_type"`
	Status             string  `json:"status"`
	PlatformName       string  `json:"platform_name,omitempty"`
	OrderID            string  `json:"order_id,omitempty"`
	DeliveryPersonName string  `json:"delivery_person_name,omitempty"`
	ExpectedAt         *string `json:"expected_at,omitempty"`
}
