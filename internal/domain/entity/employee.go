package entity

import "time"

// Employee is a master record in the employee directory. The directory is
// an external collaborator from the engine's perspective; the engine reads
// it for denormalized display fields and writes it through automation side
// effects only.
type Employee struct {
	ID               string    `json:"id" bson:"_id"`
	EmployeeNumber   string    `json:"employee_number" bson:"employee_number"`
	FirstName        string    `json:"first_name" bson:"first_name"`
	LastName         string    `json:"last_name" bson:"last_name"`
	WorkEmail        string    `json:"work_email" bson:"work_email"`
	Role             string    `json:"role" bson:"role"`
	Department       string    `json:"department" bson:"department"`
	EmploymentStatus string    `json:"employment_status" bson:"employment_status"`
	AccountStatus    string    `json:"account_status" bson:"account_status"`
	HiredAt          *time.Time `json:"hired_at,omitempty" bson:"hired_at,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// FullName returns the display name for trail and notification text.
func (e *Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// EmployeeFilter narrows directory listings.
type EmployeeFilter struct {
	Department       string
	EmploymentStatus string
}

// EmployeePatch is a partial directory update. Pointer fields distinguish
// "leave unchanged" from "set to empty".
type EmployeePatch struct {
	Role             *string `json:"role,omitempty"`
	Department       *string `json:"department,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
	AccountStatus    *string `json:"account_status,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p EmployeePatch) IsZero() bool {
	return p.Role == nil && p.Department == nil &&
		p.EmploymentStatus == nil && p.AccountStatus == nil
}

// Notification is one queued recipient notification produced by a
// lifecycle mutation. It lives in the outbox spool until delivered.
type Notification struct {
	ID         int64      `json:"id"`
	CaseID     string     `json:"case_id"`
	EventType  string     `json:"event_type"`
	Recipient  string     `json:"recipient"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	Attempts   int        `json:"attempts"`
	LastError  string     `json:"last_error,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
