package workflow

import (
	"strings"

	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

// MissingEvidence returns the labels of required-evidence categories not
// yet satisfied by the record's attached evidence. Matching is
// case-insensitive keyword search across each item's name, type, and note.
// Categories without evidence requirements always return nil.
func MissingEvidence(rec *entity.LifecycleRecord) []string {
	tpl := TemplateFor(Category(rec.Category))
	if len(tpl.Evidence) == 0 {
		return nil
	}

	var missing []string
	for _, req := range tpl.Evidence {
		if !evidenceSatisfies(rec.Evidence, req) {
			missing = append(missing, req.Label)
		}
	}
	return missing
}

// CheckEvidenceGate fails with an EvidenceIncompleteError when a gated
// category is missing required evidence for a terminal/positive status.
func CheckEvidenceGate(rec *entity.LifecycleRecord, target Status) error {
	if !target.IsPositive() {
		return nil
	}
	if missing := MissingEvidence(rec); len(missing) > 0 {
		return &EvidenceIncompleteError{Missing: missing}
	}
	return nil
}

func evidenceSatisfies(items []entity.Evidence, req EvidenceRequirement) bool {
	for _, item := range items {
		haystack := strings.ToLower(item.Name + " " + item.Type + " " + item.Note)
		for _, kw := range req.Keywords {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
	}
	return false
}
