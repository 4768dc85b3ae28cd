package workflow

import "time"

// ChecklistItem is one templated task label with its required flag.
type ChecklistItem struct {
	Label    string
	Required bool
}

// ChainStep is one templated approval-chain step.
type ChainStep struct {
	Order int
	Role  string
}

// EvidenceRequirement is one required-evidence category: a display label
// plus the keywords that satisfy it (matched case-insensitively across an
// evidence item's name, type, and note).
type EvidenceRequirement struct {
	Label    string
	Keywords []string
}

// Template is the canonical workflow definition for one lifecycle
// category, independent of any specific record.
type Template struct {
	Category  Category
	Stages    []string
	Checklist []ChecklistItem
	Chain     []ChainStep
	Evidence  []EvidenceRequirement
	SLA       time.Duration
}

const day = 24 * time.Hour

var templates = map[Category]Template{
	CategoryOnboarding: {
		Category: CategoryOnboarding,
		Stages:   []string{"Initiated", "Document Verification", "Access Provisioning", "Activation"},
		Checklist: []ChecklistItem{
			{Label: "Collect signed employment contract", Required: true},
			{Label: "Verify government IDs", Required: true},
			{Label: "Create corporate email account", Required: true},
			{Label: "Provision system access", Required: true},
			{Label: "Assign onboarding buddy"},
			{Label: "Schedule orientation session"},
		},
		SLA: 14 * day,
	},
	CategoryRoleChange: {
		Category: CategoryRoleChange,
		Stages:   []string{"Initiated", "Manager Endorsement", "HR Review", "Effective"},
		Checklist: []ChecklistItem{
			{Label: "Confirm new role compensation band", Required: true},
			{Label: "Update organization chart", Required: true},
			{Label: "Sync payroll records", Required: true},
			{Label: "Notify affected department"},
		},
		Chain: []ChainStep{
			{Order: 1, Role: "manager"},
			{Order: 2, Role: "hr"},
		},
		SLA: 7 * day,
	},
	CategoryDisciplinary: {
		Category: CategoryDisciplinary,
		Stages:   []string{"Initiated", "Investigation", "Deliberation", "Resolution"},
		Checklist: []ChecklistItem{
			{Label: "File incident report", Required: true},
			{Label: "Issue notice to explain", Required: true},
			{Label: "Collect written explanation", Required: true},
			{Label: "Record decision memo", Required: true},
		},
		Chain: []ChainStep{
			{Order: 1, Role: "hr"},
			{Order: 2, Role: "director"},
		},
		Evidence: []EvidenceRequirement{
			{Label: "Incident Report", Keywords: []string{"incident"}},
			{Label: "Notice to Explain", Keywords: []string{"notice to explain", "written explanation", "nte"}},
			{Label: "Decision Memo", Keywords: []string{"decision memo", "memo"}},
		},
		SLA: 30 * day,
	},
	CategoryOffboarding: {
		Category: CategoryOffboarding,
		Stages:   []string{"Initiated", "Clearance", "Access Revocation", "Archived"},
		Checklist: []ChecklistItem{
			{Label: "Receive resignation or termination letter", Required: true},
			{Label: "Complete clearance form", Required: true},
			{Label: "Collect company assets", Required: true},
			{Label: "Conduct exit interview"},
			{Label: "Disable system access", Required: true},
		},
		Evidence: []EvidenceRequirement{
			{Label: "Resignation or Termination Document", Keywords: []string{"resignation", "termination"}},
			{Label: "Clearance Form", Keywords: []string{"clearance"}},
			{Label: "Handover / Exit Checklist", Keywords: []string{"handover", "exit"}},
		},
		SLA: 14 * day,
	},
}

// TemplateFor returns the workflow template for a category.
func TemplateFor(c Category) Template {
	return templates[c]
}

// Stages returns the canonical ordered stage names for a category.
func Stages(c Category) []string {
	return append([]string(nil), templates[c].Stages...)
}
