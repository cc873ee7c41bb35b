package employee

const dateLayout = "2006-01-02"

// CreateEmployeeRequest is the body of POST and PUT. A PUT replaces
// department and role, so omitted fields become empty.
type CreateEmployeeRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Department string `json:"department" binding:"max=100"`
	Role       string `json:"role" binding:"max=100"`
}

// PatchEmployeeRequest only touches the fields that are present.
type PatchEmployeeRequest struct {
	UserID     *uint   `json:"user_id" binding:"omitempty,gt=0"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Role       *string `json:"role" binding:"omitempty,max=100"`
}

type ListQuery struct {
	Department string
	Role       string
	Search     string
	Ordering   string
	// UserID > 0 restricts the list to that user's own record.
	UserID uint
}

type EmployeeResponse struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	DateJoined string `json:"date_joined"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Name:       e.User.Name(),
		Email:      e.User.Email,
		Department: e.Department,
		Role:       e.Role,
		DateJoined: e.DateJoined.Format(dateLayout),
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}
