package model

// TaskPatch is a partial set of task field changes. Nil fields are left
// untouched. AssignedTo and DueDate take strings so an explicit empty
// value can clear the field, which a nil pointer cannot express.
type TaskPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
}

// Empty reports whether the patch carries no changes at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssignedTo == nil && p.DueDate == nil
}
