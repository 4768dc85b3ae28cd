package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peopleops/hris-lifecycle/internal/application/dispatcher"
	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/event"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
	"github.com/peopleops/hris-lifecycle/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// MutationResult is the outcome of a successful mutating operation: the
// committed record plus the human-readable automation effects applied.
type MutationResult struct {
	Record  *entity.LifecycleRecord
	Effects []entity.AutomationEffect
}

// CreateCaseInput is the payload for opening a new lifecycle case.
type CreateCaseInput struct {
	Category         string
	EmployeeRecordID string
	Details          entity.CaseDetails
}

// WorkflowAction is one embedded workflow command on an update.
type WorkflowAction struct {
	Type       string // toggle-task | set-stage | remove-evidence
	TaskID     string
	Completed  *bool
	StageIndex *int
	EvidenceID string
}

// Workflow action type constants
const (
	ActionToggleTask     = "toggle-task"
	ActionSetStage       = "set-stage"
	ActionRemoveEvidence = "remove-evidence"
)

// UpdatePatch is a partial lifecycle record update. Any combination of
// the three shapes may be set; category is immutable and always rejected.
type UpdatePatch struct {
	Category       *string
	Status         *string
	Details        *entity.DetailsPatch
	WorkflowAction *WorkflowAction
}

// ApprovalInput carries one approval-chain decision.
type ApprovalInput struct {
	Decision string // approve | reject
	Note     string
}

// OffboardInput carries the offboarding convenience operation payload.
type OffboardInput struct {
	Reason string
}

// EvidenceInput carries one evidence file for upload and attachment.
type EvidenceInput struct {
	FileName    string
	DocType     string
	Note        string
	ContentType string
	Content     []byte
}

// LifecycleService drives lifecycle cases through their workflow:
// creation, status transitions, checklist toggles, stage control,
// approval decisions, evidence attachment, and offboarding.
type LifecycleService interface {
	Create(ctx context.Context, actor entity.Actor, in CreateCaseInput) (*MutationResult, error)
	Get(ctx context.Context, id string) (*entity.LifecycleRecord, error)
	List(ctx context.Context, filter port.RecordFilter) ([]*entity.LifecycleRecord, error)
	Update(ctx context.Context, actor entity.Actor, id string, patch UpdatePatch) (*MutationResult, error)
	Approve(ctx context.Context, actor entity.Actor, id string, in ApprovalInput) (*MutationResult, error)
	Offboard(ctx context.Context, actor entity.Actor, id string, in OffboardInput) (*MutationResult, error)
	AddEvidence(ctx context.Context, actor entity.Actor, id string, in EvidenceInput) (*MutationResult, error)
	RemoveEvidence(ctx context.Context, actor entity.Actor, id, evidenceID string) (*MutationResult, error)
}

type lifecycleServiceImpl struct {
	repo       port.LifecycleRepository
	storage    port.EvidenceStorage
	automator  *Automator
	dispatcher dispatcher.Dispatcher
	logger     Logger
	now        func() time.Time
}

// ServiceOption configures the lifecycle service
type ServiceOption func(*lifecycleServiceImpl)

// WithClock overrides the service clock (tests)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *lifecycleServiceImpl) {
		s.now = now
	}
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(
	repo port.LifecycleRepository,
	storage port.EvidenceStorage,
	automator *Automator,
	d dispatcher.Dispatcher,
	logger Logger,
	opts ...ServiceOption,
) LifecycleService {
	s := &lifecycleServiceImpl{
		repo:       repo,
		storage:    storage,
		automator:  automator,
		dispatcher: d,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new lifecycle case from a category-specific payload.
// Onboarding cases flagged for immediate activation run the activation
// automation synchronously and are created already approved.
func (s *lifecycleServiceImpl) Create(ctx context.Context, actor entity.Actor, in CreateCaseInput) (*MutationResult, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}

	category, err := workflow.NormalizeCategory(in.Category)
	if err != nil {
		return nil, err
	}

	if err := validateCreateDetails(category, in); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &entity.LifecycleRecord{
		ID:               uuid.NewString(),
		EmployeeRecordID: in.EmployeeRecordID,
		Category:         category.String(),
		Status:           workflow.StatusInProgress.String(),
		Owner:            actor.Name,
		Details:          in.Details,
		Workflow:         buildWorkflowState(category, now),
		Version:          0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.bindSubject(ctx, actor, rec, category); err != nil {
		return nil, err
	}

	var effects []entity.AutomationEffect
	if category == workflow.CategoryOnboarding && in.Details.ActivateEmployment {
		effects, err = s.automator.ActivateEmployment(ctx, rec)
		if err != nil {
			return nil, err
		}
		rec.Status = workflow.StatusApproved.String()
		rec.Workflow.StageIndex = len(rec.Workflow.Stages) - 1
		rec.Workflow.Stage = rec.Workflow.Stages[rec.Workflow.StageIndex]
		rec.LastAutomationEffects = effects
		rec.LastAutomationAt = &now
	}

	rec.AppendTrail(entity.TrailActionCreated, "case opened", actor, now)

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to create lifecycle record", "error", err, "category", category)
		return nil, err
	}

	s.logger.Info("Lifecycle case created",
		"case_id", rec.ID,
		"category", rec.Category,
		"status", rec.Status,
		"employee", rec.EmployeeEmail,
	)

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeCaseCreated, rec.ID, rec.EmployeeEmail, map[string]interface{}{
		"category": rec.Category,
		"status":   rec.Status,
		"owner":    rec.Owner,
	}))

	return &MutationResult{Record: rec, Effects: effects}, nil
}

// Get retrieves one lifecycle record by ID.
func (s *lifecycleServiceImpl) Get(ctx context.Context, id string) (*entity.LifecycleRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshSLA(rec)
	return rec, nil
}

// List retrieves lifecycle records matching the filter.
func (s *lifecycleServiceImpl) List(ctx context.Context, filter port.RecordFilter) ([]*entity.LifecycleRecord, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		s.refreshSLA(rec)
	}
	return records, nil
}

// Update applies a partial patch: direct status/details changes, an
// embedded workflow action, or a combination. One successful call appends
// exactly one traceability entry and bumps the record version once.
func (s *lifecycleServiceImpl) Update(ctx context.Context, actor entity.Actor, id string, patch UpdatePatch) (*MutationResult, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}
	if patch.Category != nil {
		return nil, workflow.NewValidationError("category", "is immutable once the case is created")
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := rec.Version
	now := s.now()

	var (
		action      = entity.TrailActionDetailsUpdated
		detail      string
		events      []*event.Event
		effects     []entity.AutomationEffect
		removedPath string
	)

	if patch.WorkflowAction != nil {
		action, detail, events, removedPath, err = s.applyWorkflowAction(rec, *patch.WorkflowAction)
		if err != nil {
			return nil, err
		}
	}

	if patch.Details != nil && !patch.Details.IsZero() {
		patch.Details.Apply(&rec.Details)
		if detail == "" {
			detail = "details updated"
		}
	}

	if patch.Status != nil {
		target, err := workflow.NormalizeStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		statusEffects, statusEvents, err := s.applyStatusChange(ctx, rec, target, now)
		if err != nil {
			return nil, err
		}
		effects = append(effects, statusEffects...)
		events = append(events, statusEvents...)
		if statusEffects != nil {
			rec.LastAutomationEffects = statusEffects
			rec.LastAutomationAt = &now
		}
		action = entity.TrailActionStatusChanged
		detail = joinDetail(detail, "status set to "+target.String())
	}

	rec.AppendTrail(action, detail, actor, now)
	rec.UpdatedAt = now
	s.refreshSLA(rec)

	if err := s.repo.Replace(ctx, rec, expected); err != nil {
		s.logger.Error("Failed to persist lifecycle update", "error", err, "case_id", rec.ID)
		return nil, err
	}

	// Detached evidence objects are deleted only once the record write
	// has committed; until then the committed record still references
	// them. Deletion failures are logged and swallowed.
	if removedPath != "" {
		if rmErr := s.storage.Remove(ctx, removedPath); rmErr != nil {
			s.logger.Error("Failed to delete evidence object",
				"error", rmErr, "storage_path", removedPath)
		}
	}

	for _, evt := range events {
		s.dispatcher.DispatchAsync(ctx, evt)
	}

	return &MutationResult{Record: rec, Effects: effects}, nil
}

// Approve decides the current pending approval-chain step. Only an actor
// whose role matches the step's role may decide it; final approval runs
// the category's automation, a rejection halts the chain.
func (s *lifecycleServiceImpl) Approve(ctx context.Context, actor entity.Actor, id string, in ApprovalInput) (*MutationResult, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}

	decision := strings.ToLower(strings.TrimSpace(in.Decision))
	if decision != "approve" && decision != "reject" {
		return nil, workflow.NewValidationError("decision", "must be approve or reject")
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := rec.Version
	now := s.now()

	step := rec.PendingStep()
	if step == nil {
		return nil, &workflow.ApprovalOrderError{Reason: "no pending approval step on this case"}
	}
	if !strings.EqualFold(step.Role, actor.Role) {
		return nil, &workflow.ApprovalOrderError{Reason: fmt.Sprintf(
			"approval step %d requires role %s, actor has role %s", step.Order, step.Role, actor.Role)}
	}

	var (
		effects []entity.AutomationEffect
		events  []*event.Event
	)

	switch decision {
	case "approve":
		step.Status = entity.StepStatusApproved
		step.DecidedBy = actor.Email
		step.DecidedAt = &now
		step.Note = in.Note

		if next := nextWaitingStep(rec); next != nil {
			next.Status = entity.StepStatusPending
			rec.AppendTrail(entity.TrailActionApprovalGranted,
				fmt.Sprintf("step %d approved, awaiting %s", step.Order, next.Role), actor, now)
		} else {
			// Chain closed: move the case to approved and run automation.
			statusEffects, statusEvents, err := s.applyStatusChange(ctx, rec, workflow.StatusApproved, now)
			if err != nil {
				return nil, err
			}
			effects = statusEffects
			events = statusEvents
			if effects != nil {
				rec.LastAutomationEffects = effects
				rec.LastAutomationAt = &now
			}
			rec.AppendTrail(entity.TrailActionApprovalGranted,
				fmt.Sprintf("step %d approved, chain complete", step.Order), actor, now)
			events = append(events, event.NewEvent(event.TypeCaseApproved, rec.ID, rec.EmployeeEmail, map[string]interface{}{
				"decided_by": actor.Email,
			}))
		}

	case "reject":
		step.Status = entity.StepStatusRejected
		step.DecidedBy = actor.Email
		step.DecidedAt = &now
		step.Note = in.Note

		if _, _, err := s.applyStatusChange(ctx, rec, workflow.StatusRejected, now); err != nil {
			return nil, err
		}
		rec.AppendTrail(entity.TrailActionApprovalDenied,
			fmt.Sprintf("step %d rejected", step.Order), actor, now)
		events = append(events, event.NewEvent(event.TypeCaseRejected, rec.ID, rec.EmployeeEmail, map[string]interface{}{
			"decided_by": actor.Email,
			"note":       in.Note,
		}))
	}

	rec.UpdatedAt = now
	s.refreshSLA(rec)

	if err := s.repo.Replace(ctx, rec, expected); err != nil {
		s.logger.Error("Failed to persist approval decision", "error", err, "case_id", rec.ID)
		return nil, err
	}

	s.logger.Info("Approval decision recorded",
		"case_id", rec.ID,
		"decision", decision,
		"decided_by", actor.Email,
	)

	for _, evt := range events {
		s.dispatcher.DispatchAsync(ctx, evt)
	}

	return &MutationResult{Record: rec, Effects: effects}, nil
}

// Offboard drives an offboarding case to its terminal stage: evidence
// gate, access-revocation automation, archival scheduling.
func (s *lifecycleServiceImpl) Offboard(ctx context.Context, actor entity.Actor, id string, in OffboardInput) (*MutationResult, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workflow.Category(rec.Category) != workflow.CategoryOffboarding {
		return nil, workflow.NewValidationError("category", "offboard applies to offboarding cases only")
	}
	expected := rec.Version
	now := s.now()

	effects, events, err := s.applyStatusChange(ctx, rec, workflow.StatusAccessRevoked, now)
	if err != nil {
		return nil, err
	}
	// A repeat offboard on an already revoked case is a status no-op;
	// the automation record of the run that revoked access stays put.
	if effects != nil {
		rec.LastAutomationEffects = effects
		rec.LastAutomationAt = &now
	}

	if in.Reason != "" {
		rec.Details.Reason = in.Reason
	}
	rec.Workflow.StageIndex = len(rec.Workflow.Stages) - 1
	rec.Workflow.Stage = rec.Workflow.Stages[rec.Workflow.StageIndex]

	rec.AppendTrail(entity.TrailActionOffboarded, "offboarding finalized: "+rec.Details.Reason, actor, now)
	rec.UpdatedAt = now
	s.refreshSLA(rec)

	if err := s.repo.Replace(ctx, rec, expected); err != nil {
		s.logger.Error("Failed to persist offboarding", "error", err, "case_id", rec.ID)
		return nil, err
	}

	s.logger.Info("Case offboarded", "case_id", rec.ID, "employee", rec.EmployeeEmail)

	for _, evt := range events {
		s.dispatcher.DispatchAsync(ctx, evt)
	}
	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeCaseOffboarded, rec.ID, rec.EmployeeEmail, map[string]interface{}{
		"reason": rec.Details.Reason,
	}))

	return &MutationResult{Record: rec, Effects: effects}, nil
}

// AddEvidence uploads one file to evidence storage and attaches it to the
// case. Upload happens first; if the record write then fails, the
// uploaded object is deleted best-effort and the error is returned.
func (s *lifecycleServiceImpl) AddEvidence(ctx context.Context, actor entity.Actor, id string, in EvidenceInput) (*MutationResult, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, workflow.NewValidationError("file_name", "is required")
	}
	if len(in.Content) == 0 {
		return nil, workflow.NewValidationError("file", "is empty")
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := rec.Version
	now := s.now()

	stored, err := s.storage.Upload(ctx, port.UploadInput{
		RecordID:      rec.ID,
		EmployeeEmail: rec.EmployeeEmail,
		FileName:      in.FileName,
		ContentType:   in.ContentType,
		Content:       in.Content,
	})
	if err != nil {
		return nil, &workflow.AutomationError{Effect: "evidence upload", Err: err}
	}

	item := entity.Evidence{
		ID:          uuid.NewString(),
		Name:        in.FileName,
		Type:        in.DocType,
		Note:        in.Note,
		Ref:         stored.Ref,
		StoragePath: stored.StoragePath,
		ContentType: stored.ContentType,
		SizeBytes:   stored.SizeBytes,
		UploadedAt:  now,
		UploadedBy:  actor.Email,
	}
	rec.Evidence = append(rec.Evidence, item)
	rec.AppendTrail(entity.TrailActionEvidenceAdded, "attached "+item.Name, actor, now)
	rec.UpdatedAt = now

	if err := s.repo.Replace(ctx, rec, expected); err != nil {
		// The file is already in storage; clean it up so it does not
		// orphan. Cleanup failures are logged and swallowed.
		if rmErr := s.storage.Remove(ctx, stored.StoragePath); rmErr != nil {
			s.logger.Error("Failed to clean up orphaned evidence object",
				"error", rmErr, "storage_path", stored.StoragePath)
		}
		return nil, err
	}

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeEvidenceAdded, rec.ID, rec.EmployeeEmail, map[string]interface{}{
		"evidence_id": item.ID,
		"name":        item.Name,
	}))

	return &MutationResult{Record: rec, Effects: nil}, nil
}

// RemoveEvidence detaches one evidence item and deletes its stored object
// best-effort.
func (s *lifecycleServiceImpl) RemoveEvidence(ctx context.Context, actor entity.Actor, id, evidenceID string) (*MutationResult, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := rec.Version
	now := s.now()

	item := rec.FindEvidence(evidenceID)
	if item == nil {
		return nil, fmt.Errorf("%w: evidence %s", workflow.ErrNotFound, evidenceID)
	}
	removed := *item

	kept := rec.Evidence[:0]
	for _, e := range rec.Evidence {
		if e.ID != evidenceID {
			kept = append(kept, e)
		}
	}
	rec.Evidence = kept
	rec.AppendTrail(entity.TrailActionEvidenceRemoved, "removed "+removed.Name, actor, now)
	rec.UpdatedAt = now

	if err := s.repo.Replace(ctx, rec, expected); err != nil {
		return nil, err
	}

	if rmErr := s.storage.Remove(ctx, removed.StoragePath); rmErr != nil {
		s.logger.Error("Failed to delete evidence object",
			"error", rmErr, "storage_path", removed.StoragePath)
	}

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeEvidenceRemoved, rec.ID, rec.EmployeeEmail, map[string]interface{}{
		"evidence_id": removed.ID,
		"name":        removed.Name,
	}))

	return &MutationResult{Record: rec, Effects: nil}, nil
}

// applyWorkflowAction mutates the embedded workflow sub-state in place
// and returns the trail action, detail text, events to dispatch, and the
// storage path of a detached evidence object if the action removed one.
// The caller deletes that object only after the record write commits.
func (s *lifecycleServiceImpl) applyWorkflowAction(rec *entity.LifecycleRecord, wa WorkflowAction) (string, string, []*event.Event, string, error) {
	switch wa.Type {
	case ActionToggleTask:
		if wa.Completed == nil {
			return "", "", nil, "", workflow.NewValidationError("completed", "is required for toggle-task")
		}
		task := rec.FindTask(wa.TaskID)
		if task == nil {
			return "", "", nil, "", workflow.NewValidationError("task_id", "does not match any checklist task")
		}
		status := entity.TaskStatusPending
		if *wa.Completed {
			status = entity.TaskStatusCompleted
		}
		// Toggling to the current state is a no-op that still lands in
		// the trail: auditors see the attempt either way.
		task.Status = status
		detail := fmt.Sprintf("task %q set to %s", task.Label, strings.ToLower(status))
		evt := event.NewEvent(event.TypeTaskToggled, rec.ID, rec.EmployeeEmail, map[string]interface{}{
			"task_id":   task.ID,
			"label":     task.Label,
			"completed": *wa.Completed,
		})
		return entity.TrailActionTaskToggled, detail, []*event.Event{evt}, "", nil

	case ActionSetStage:
		if wa.StageIndex == nil {
			return "", "", nil, "", workflow.NewValidationError("stage_index", "is required for set-stage")
		}
		idx := *wa.StageIndex
		if idx < 0 || idx >= len(rec.Workflow.Stages) {
			return "", "", nil, "", workflow.NewValidationError("stage_index",
				fmt.Sprintf("must be between 0 and %d", len(rec.Workflow.Stages)-1))
		}
		rec.Workflow.StageIndex = idx
		rec.Workflow.Stage = rec.Workflow.Stages[idx]
		detail := "stage set to " + rec.Workflow.Stage
		evt := event.NewEvent(event.TypeStageChanged, rec.ID, rec.EmployeeEmail, map[string]interface{}{
			"stage":       rec.Workflow.Stage,
			"stage_index": idx,
		})
		return entity.TrailActionStageChanged, detail, []*event.Event{evt}, "", nil

	case ActionRemoveEvidence:
		item := rec.FindEvidence(wa.EvidenceID)
		if item == nil {
			return "", "", nil, "", fmt.Errorf("%w: evidence %s", workflow.ErrNotFound, wa.EvidenceID)
		}
		removed := *item
		kept := rec.Evidence[:0]
		for _, e := range rec.Evidence {
			if e.ID != wa.EvidenceID {
				kept = append(kept, e)
			}
		}
		rec.Evidence = kept
		evt := event.NewEvent(event.TypeEvidenceRemoved, rec.ID, rec.EmployeeEmail, map[string]interface{}{
			"evidence_id": removed.ID,
			"name":        removed.Name,
		})
		return entity.TrailActionEvidenceRemoved, "removed " + removed.Name, []*event.Event{evt}, removed.StoragePath, nil

	default:
		return "", "", nil, "", workflow.NewValidationError("workflow_action", "unknown action "+wa.Type)
	}
}

// applyStatusChange replays a status transition through the case state
// machine (evidence-gated) and runs the category automation for the
// target status. Automation runs before the caller persists, so a failed
// side effect aborts the whole mutation.
func (s *lifecycleServiceImpl) applyStatusChange(ctx context.Context, rec *entity.LifecycleRecord, target workflow.Status, now time.Time) ([]entity.AutomationEffect, []*event.Event, error) {
	current := workflow.Status(rec.Status)
	if current == target {
		return nil, nil, nil
	}

	trigger, ok := workflow.TriggerFor(target)
	if !ok {
		return nil, nil, workflow.NewValidationError("status", "unrecognized target status "+target.String())
	}

	guard := func(context.Context) error {
		return workflow.CheckEvidenceGate(rec, target)
	}
	machine := workflow.BuildCaseStateMachine(workflow.Category(rec.Category), current, guard)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, nil, err
	}

	effects, err := s.automator.OnStatusChange(ctx, rec, target)
	if err != nil {
		return nil, nil, err
	}

	rec.Status = machine.Status().String()

	events := []*event.Event{
		event.NewEvent(event.TypeStatusChanged, rec.ID, rec.EmployeeEmail, map[string]interface{}{
			"previous_status": current.String(),
			"new_status":      rec.Status,
		}),
	}
	return effects, events, nil
}

// bindSubject denormalizes the subject employee onto the record and
// blocks self-created cases.
func (s *lifecycleServiceImpl) bindSubject(ctx context.Context, actor entity.Actor, rec *entity.LifecycleRecord, category workflow.Category) error {
	if category == workflow.CategoryOnboarding {
		rec.EmployeeEmail = rec.Details.WorkEmail
		rec.EmployeeName = strings.TrimSpace(rec.Details.FirstName + " " + rec.Details.LastName)
	} else {
		if rec.EmployeeRecordID == "" {
			return workflow.NewValidationError("employee_record_id", "is required")
		}
		emp, err := s.automator.directory.GetEmployee(ctx, rec.EmployeeRecordID)
		if err != nil {
			return err
		}
		rec.EmployeeEmail = emp.WorkEmail
		rec.EmployeeName = emp.FullName()
		if workflow.Category(rec.Category) == workflow.CategoryRoleChange && rec.Details.RoleFrom == "" {
			rec.Details.RoleFrom = emp.Role
		}
		if workflow.Category(rec.Category) == workflow.CategoryRoleChange && rec.Details.DepartmentFrom == "" {
			rec.Details.DepartmentFrom = emp.Department
		}
	}

	if strings.EqualFold(actor.Email, rec.EmployeeEmail) {
		return fmt.Errorf("%w: employees cannot open cases about themselves", workflow.ErrForbidden)
	}
	return nil
}

func (s *lifecycleServiceImpl) refreshSLA(rec *entity.LifecycleRecord) {
	if workflow.Status(rec.Status).IsTerminal() {
		return
	}
	rec.Workflow.SLABreached = s.now().After(rec.Workflow.SLADueAt)
}

// buildWorkflowState instantiates the category template into embedded
// workflow sub-state: stages, a fresh checklist, and the approval chain
// with its first step pending.
func buildWorkflowState(category workflow.Category, now time.Time) entity.WorkflowState {
	tpl := workflow.TemplateFor(category)

	checklist := make([]entity.ChecklistTask, 0, len(tpl.Checklist))
	due := now.Add(tpl.SLA)
	for _, item := range tpl.Checklist {
		checklist = append(checklist, entity.ChecklistTask{
			ID:       uuid.NewString(),
			Label:    item.Label,
			Status:   entity.TaskStatusPending,
			Required: item.Required,
			DueAt:    &due,
		})
	}

	var chain []entity.ApprovalStep
	for i, step := range tpl.Chain {
		status := entity.StepStatusWaiting
		if i == 0 {
			status = entity.StepStatusPending
		}
		chain = append(chain, entity.ApprovalStep{
			Order:  step.Order,
			Role:   step.Role,
			Status: status,
		})
	}

	return entity.WorkflowState{
		Stage:         tpl.Stages[0],
		StageIndex:    0,
		Stages:        append([]string(nil), tpl.Stages...),
		Checklist:     checklist,
		ApprovalChain: chain,
		SLADueAt:      now.Add(tpl.SLA),
	}
}

func nextWaitingStep(rec *entity.LifecycleRecord) *entity.ApprovalStep {
	for i := range rec.Workflow.ApprovalChain {
		if rec.Workflow.ApprovalChain[i].Status == entity.StepStatusWaiting {
			return &rec.Workflow.ApprovalChain[i]
		}
	}
	return nil
}

// authorizeMutation blocks employee-role actors from mutating operations.
// This is the engine-side invariant; UI role checks are advisory only.
func authorizeMutation(actor entity.Actor) error {
	if actor.Email == "" {
		return fmt.Errorf("%w: actor identity missing", workflow.ErrForbidden)
	}
	if strings.EqualFold(actor.Role, entity.RoleEmployee) {
		return fmt.Errorf("%w: employee-role actors cannot modify lifecycle cases", workflow.ErrForbidden)
	}
	return nil
}

// validateCreateDetails enforces category-specific required fields.
func validateCreateDetails(category workflow.Category, in CreateCaseInput) error {
	d := in.Details
	switch category {
	case workflow.CategoryOnboarding:
		switch {
		case d.EmployeeNumber == "":
			return workflow.NewValidationError("employee_number", "is required for onboarding")
		case d.FirstName == "" || d.LastName == "":
			return workflow.NewValidationError("name", "first and last name are required for onboarding")
		case d.WorkEmail == "":
			return workflow.NewValidationError("work_email", "is required for onboarding")
		case utils.ValidateEmail(d.WorkEmail) != nil:
			return workflow.NewValidationError("work_email", "is not a valid email address")
		case d.Role == "":
			return workflow.NewValidationError("role", "is required for onboarding")
		case d.Department == "":
			return workflow.NewValidationError("department", "is required for onboarding")
		case d.StartDate == nil:
			return workflow.NewValidationError("start_date", "is required for onboarding")
		}
	case workflow.CategoryRoleChange:
		if d.RoleTo == "" && d.DepartmentTo == "" {
			return workflow.NewValidationError("role_to", "role change needs a target role or department")
		}
		if d.EffectiveDate == nil {
			return workflow.NewValidationError("effective_date", "is required for role change")
		}
	case workflow.CategoryDisciplinary:
		if d.ViolationSummary == "" {
			return workflow.NewValidationError("violation_summary", "is required for disciplinary cases")
		}
	case workflow.CategoryOffboarding:
		if d.Reason == "" {
			return workflow.NewValidationError("reason", "is required for offboarding")
		}
		if d.LastWorkingDay == nil {
			return workflow.NewValidationError("last_working_day", "is required for offboarding")
		}
	}
	return nil
}

func joinDetail(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
