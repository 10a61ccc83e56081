package model

// Departments a volunteer can pick in the join-mission form.
const (
	DepartmentSales       = "sales"
	DepartmentMarketing   = "marketing"
	DepartmentSupport     = "support"
	DepartmentDevelopment = "development"
)

// Departments lists the valid departments in form order.
var Departments = []string{DepartmentSales, DepartmentMarketing, DepartmentSupport, DepartmentDevelopment}

// JoinRequest is a join-mission form submission. It is acknowledged and
// logged, never stored.
type JoinRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Department string `json:"department" validate:"required,oneof=sales marketing support development"`
}

// JoinResult acknowledges a submission.
type JoinResult struct {
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}
