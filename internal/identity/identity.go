package identity

import "github.com/gin-gonic/gin"

// Role is the closed set of actor roles. There is no role hierarchy; every
// operation states explicitly which roles may call it.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleEmployee     Role = "employee"
	RoleGuard        Role = "guard"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompanyAdmin, RoleEmployee, RoleGuard:
		return true
	}
	return false
}

// Identity is the authenticated principal attached to a request. CompanyID is
// set for company admins and employees, EmployeeID only for employees.
type Identity struct {
	UserID     string
	Role       Role
	CompanyID  string
	EmployeeID string
}

const (
	ctxUserID     = "user_id"
	ctxRole       = "role"
	ctxCompanyID  = "company_id"
	ctxEmployeeID = "employee_id"
)

// Set stores the identity fields in the gin context for downstream handlers.
func Set(c *gin.Context, id Identity) {
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxRole, string(id.Role))
	c.Set(ctxCompanyID, id.CompanyID)
	c.Set(ctxEmployeeID, id.EmployeeID)
}

// FromGin rebuilds the identity placed by the auth middleware.
func FromGin(c *gin.Context) Identity {
	return Identity{
		UserID:     c.GetString(ctxUserID),
		Role:       Role(c.GetString(ctxRole)),
		CompanyID:  c.GetString(ctxCompanyID),
		EmployeeID: c.GetString(ctxEmployeeID),
	}
}
