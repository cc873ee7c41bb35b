package rbac

const (
	SubjectStaff  = "staff"
	SubjectMember = "member"

	ObjectEmployee = "employee"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type EnforceRequest struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// SubjectFor maps an account's staff flag to its policy subject.
func SubjectFor(isStaff bool) string {
	if isStaff {
		return SubjectStaff
	}
	return SubjectMember
}
