package entity

import "time"

// CaseDetails is the category-specific payload of a lifecycle case. Only
// the fields relevant to the record's category are populated; the rest
// stay zero and are omitted from the stored document.
type CaseDetails struct {
	// Onboarding
	EmployeeNumber       string     `json:"employee_number,omitempty" bson:"employee_number,omitempty"`
	FirstName            string     `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName             string     `json:"last_name,omitempty" bson:"last_name,omitempty"`
	WorkEmail            string     `json:"work_email,omitempty" bson:"work_email,omitempty"`
	Role                 string     `json:"role,omitempty" bson:"role,omitempty"`
	Department           string     `json:"department,omitempty" bson:"department,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	ActivateEmployment   bool       `json:"activate_employment_now,omitempty" bson:"activate_employment_now,omitempty"`

	// Role change
	RoleFrom       string     `json:"role_from,omitempty" bson:"role_from,omitempty"`
	RoleTo         string     `json:"role_to,omitempty" bson:"role_to,omitempty"`
	DepartmentFrom string     `json:"department_from,omitempty" bson:"department_from,omitempty"`
	DepartmentTo   string     `json:"department_to,omitempty" bson:"department_to,omitempty"`
	EffectiveDate  *time.Time `json:"effective_date,omitempty" bson:"effective_date,omitempty"`
	Justification  string     `json:"justification,omitempty" bson:"justification,omitempty"`

	// Disciplinary
	ViolationSummary string     `json:"violation_summary,omitempty" bson:"violation_summary,omitempty"`
	IncidentDate     *time.Time `json:"incident_date,omitempty" bson:"incident_date,omitempty"`

	// Offboarding
	Reason         string     `json:"reason,omitempty" bson:"reason,omitempty"`
	LastWorkingDay *time.Time `json:"last_working_day,omitempty" bson:"last_working_day,omitempty"`

	// Free-text note, any category
	Note string `json:"note,omitempty" bson:"note,omitempty"`
}

// DetailsPatch carries a partial details update. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type DetailsPatch struct {
	Role           *string    `json:"role,omitempty"`
	Department     *string    `json:"department,omitempty"`
	RoleTo         *string    `json:"role_to,omitempty"`
	DepartmentTo   *string    `json:"department_to,omitempty"`
	EffectiveDate  *time.Time `json:"effective_date,omitempty"`
	Justification  *string    `json:"justification,omitempty"`
	Reason         *string    `json:"reason,omitempty"`
	LastWorkingDay *time.Time `json:"last_working_day,omitempty"`
	Note           *string    `json:"note,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p DetailsPatch) IsZero() bool {
	return p.Role == nil && p.Department == nil && p.RoleTo == nil &&
		p.DepartmentTo == nil && p.EffectiveDate == nil && p.Justification == nil &&
		p.Reason == nil && p.LastWorkingDay == nil && p.Note == nil
}

// Apply copies the set fields of the patch onto the details.
func (p DetailsPatch) Apply(d *CaseDetails) {
	if p.Role != nil {
		d.Role = *p.Role
	}
	if p.Department != nil {
		d.Department = *p.Department
	}
	if p.RoleTo != nil {
		d.RoleTo = *p.RoleTo
	}
	if p.DepartmentTo != nil {
		d.DepartmentTo = *p.DepartmentTo
	}
	if p.EffectiveDate != nil {
		d.EffectiveDate = p.EffectiveDate
	}
	if p.Justification != nil {
		d.Justification = *p.Justification
	}
	if p.Reason != nil {
		d.Reason = *p.Reason
	}
	if p.LastWorkingDay != nil {
		d.LastWorkingDay = p.LastWorkingDay
	}
	if p.Note != nil {
		d.Note = *p.Note
	}
}
