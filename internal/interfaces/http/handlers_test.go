package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/peopleops/hris-lifecycle/internal/application/dispatcher"
	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/application/service"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

// Stub services

type stubLifecycleService struct {
	createFunc         func(ctx context.Context, actor entity.Actor, in service.CreateCaseInput) (*service.MutationResult, error)
	getFunc            func(ctx context.Context, id string) (*entity.LifecycleRecord, error)
	listFunc           func(ctx context.Context, filter port.RecordFilter) ([]*entity.LifecycleRecord, error)
	updateFunc         func(ctx context.Context, actor entity.Actor, id string, patch service.UpdatePatch) (*service.MutationResult, error)
	approveFunc        func(ctx context.Context, actor entity.Actor, id string, in service.ApprovalInput) (*service.MutationResult, error)
	offboardFunc       func(ctx context.Context, actor entity.Actor, id string, in service.OffboardInput) (*service.MutationResult, error)
	addEvidenceFunc    func(ctx context.Context, actor entity.Actor, id string, in service.EvidenceInput) (*service.MutationResult, error)
	removeEvidenceFunc func(ctx context.Context, actor entity.Actor, id, evidenceID string) (*service.MutationResult, error)
}

func stubResult() *service.MutationResult {
	return &service.MutationResult{Record: &entity.LifecycleRecord{ID: "case-1", Category: "onboarding", Status: "IN_PROGRESS"}}
}

func (s *stubLifecycleService) Create(ctx context.Context, actor entity.Actor, in service.CreateCaseInput) (*service.MutationResult, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, actor, in)
	}
	return stubResult(), nil
}

func (s *stubLifecycleService) Get(ctx context.Context, id string) (*entity.LifecycleRecord, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, id)
	}
	return &entity.LifecycleRecord{ID: id}, nil
}

func (s *stubLifecycleService) List(ctx context.Context, filter port.RecordFilter) ([]*entity.LifecycleRecord, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, filter)
	}
	return nil, nil
}

func (s *stubLifecycleService) Update(ctx context.Context, actor entity.Actor, id string, patch service.UpdatePatch) (*service.MutationResult, error) {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, actor, id, patch)
	}
	return stubResult(), nil
}

func (s *stubLifecycleService) Approve(ctx context.Context, actor entity.Actor, id string, in service.ApprovalInput) (*service.MutationResult, error) {
	if s.approveFunc != nil {
		return s.approveFunc(ctx, actor, id, in)
	}
	return stubResult(), nil
}

func (s *stubLifecycleService) Offboard(ctx context.Context, actor entity.Actor, id string, in service.OffboardInput) (*service.MutationResult, error) {
	if s.offboardFunc != nil {
		return s.offboardFunc(ctx, actor, id, in)
	}
	return stubResult(), nil
}

func (s *stubLifecycleService) AddEvidence(ctx context.Context, actor entity.Actor, id string, in service.EvidenceInput) (*service.MutationResult, error) {
	if s.addEvidenceFunc != nil {
		return s.addEvidenceFunc(ctx, actor, id, in)
	}
	return stubResult(), nil
}

func (s *stubLifecycleService) RemoveEvidence(ctx context.Context, actor entity.Actor, id, evidenceID string) (*service.MutationResult, error) {
	if s.removeEvidenceFunc != nil {
		return s.removeEvidenceFunc(ctx, actor, id, evidenceID)
	}
	return stubResult(), nil
}

type stubDirectoryService struct {
	createFunc func(ctx context.Context, actor entity.Actor, emp *entity.Employee) (*entity.Employee, error)
}

func (s *stubDirectoryService) Create(ctx context.Context, actor entity.Actor, emp *entity.Employee) (*entity.Employee, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, actor, emp)
	}
	emp.ID = "emp-1"
	return emp, nil
}

func (s *stubDirectoryService) Get(ctx context.Context, id string) (*entity.Employee, error) {
	return &entity.Employee{ID: id}, nil
}

func (s *stubDirectoryService) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	return &entity.Employee{WorkEmail: email}, nil
}

func (s *stubDirectoryService) Update(ctx context.Context, actor entity.Actor, id string, patch entity.EmployeePatch) (*entity.Employee, error) {
	return &entity.Employee{ID: id}, nil
}

func (s *stubDirectoryService) List(ctx context.Context, filter entity.EmployeeFilter) ([]*entity.Employee, error) {
	return nil, nil
}

type stubNotificationService struct{}

func (s *stubNotificationService) Register(d dispatcher.Dispatcher) {}

func (s *stubNotificationService) ProcessPending(ctx context.Context, limit int) (int, error) {
	return 0, nil
}

func (s *stubNotificationService) GetByCaseID(ctx context.Context, caseID string) ([]*entity.Notification, error) {
	return []*entity.Notification{{ID: 1, CaseID: caseID}}, nil
}

type stubReportService struct{}

func (s *stubReportService) CaseRegister(ctx context.Context, filter port.RecordFilter) ([]byte, string, error) {
	return []byte("workbook"), "lifecycle-register-20260310.xlsx", nil
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestRouter(lifecycle *stubLifecycleService) *gin.Engine {
	srv := NewServer(DefaultServerConfig(), lifecycle, &stubDirectoryService{}, &stubNotificationService{}, &stubReportService{}, noopLogger{})
	return srv.Router()
}

func doJSON(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var hrHeaders = map[string]string{
	headerActorEmail: "hr@corp.test",
	headerActorName:  "Dana Cruz",
	headerActorRole:  "hr",
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubLifecycleService{})

	w := doJSON(router, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
}

func TestCreateCase(t *testing.T) {
	t.Run("binds the actor from identity headers", func(t *testing.T) {
		var gotActor entity.Actor
		lifecycle := &stubLifecycleService{
			createFunc: func(ctx context.Context, actor entity.Actor, in service.CreateCaseInput) (*service.MutationResult, error) {
				gotActor = actor
				return stubResult(), nil
			},
		}
		router := newTestRouter(lifecycle)

		w := doJSON(router, http.MethodPost, "/api/v1/lifecycle", `{"category":"onboarding"}`, hrHeaders)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
		}
		if gotActor.Email != "hr@corp.test" || gotActor.Role != entity.RoleHR {
			t.Errorf("actor = %+v", gotActor)
		}
	})

	t.Run("defaults missing role to employee", func(t *testing.T) {
		var gotActor entity.Actor
		lifecycle := &stubLifecycleService{
			createFunc: func(ctx context.Context, actor entity.Actor, in service.CreateCaseInput) (*service.MutationResult, error) {
				gotActor = actor
				return stubResult(), nil
			},
		}
		router := newTestRouter(lifecycle)

		doJSON(router, http.MethodPost, "/api/v1/lifecycle", `{"category":"onboarding"}`, map[string]string{
			headerActorEmail: "someone@corp.test",
		})
		if gotActor.Role != entity.RoleEmployee {
			t.Errorf("role = %s, want defaulted %s", gotActor.Role, entity.RoleEmployee)
		}
	})

	t.Run("missing category is a 400", func(t *testing.T) {
		router := newTestRouter(&stubLifecycleService{})

		w := doJSON(router, http.MethodPost, "/api/v1/lifecycle", `{}`, hrHeaders)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed details email is a 400", func(t *testing.T) {
		router := newTestRouter(&stubLifecycleService{})

		body := `{"category":"onboarding","details":{"work_email":"not-an-email"}}`
		w := doJSON(router, http.MethodPost, "/api/v1/lifecycle", body, hrHeaders)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestGetCase_NotFound(t *testing.T) {
	lifecycle := &stubLifecycleService{
		getFunc: func(ctx context.Context, id string) (*entity.LifecycleRecord, error) {
			return nil, fmt.Errorf("%w: %s", workflow.ErrNotFound, id)
		},
	}
	router := newTestRouter(lifecycle)

	w := doJSON(router, http.MethodGet, "/api/v1/lifecycle/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("error envelope = %+v", resp)
	}
}

func TestListCases_EmptyIsArray(t *testing.T) {
	router := newTestRouter(&stubLifecycleService{})

	w := doJSON(router, http.MethodGet, "/api/v1/lifecycle", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("body = %s, want an empty array, not null", w.Body.String())
	}
}

func TestUpdateCase_UnknownWorkflowAction(t *testing.T) {
	router := newTestRouter(&stubLifecycleService{})

	body := `{"workflow_action":{"type":"promote"}}`
	w := doJSON(router, http.MethodPatch, "/api/v1/lifecycle/case-1", body, hrHeaders)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", workflow.NewValidationError("category", "is required"), http.StatusBadRequest},
		{"evidence gate", &workflow.EvidenceIncompleteError{Missing: []string{"Clearance Form"}}, http.StatusUnprocessableEntity},
		{"invalid transition", workflow.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"forbidden", workflow.ErrForbidden, http.StatusForbidden},
		{"approval order", &workflow.ApprovalOrderError{Reason: "no pending step"}, http.StatusConflict},
		{"version conflict", workflow.ErrConflict, http.StatusConflict},
		{"not found", workflow.ErrNotFound, http.StatusNotFound},
		{"automation failure", &workflow.AutomationError{Effect: "x", Err: workflow.ErrNotFound}, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestApproveCase_GateErrorsSurface(t *testing.T) {
	lifecycle := &stubLifecycleService{
		approveFunc: func(ctx context.Context, actor entity.Actor, id string, in service.ApprovalInput) (*service.MutationResult, error) {
			return nil, &workflow.EvidenceIncompleteError{Missing: []string{"Decision Memo"}}
		},
	}
	router := newTestRouter(lifecycle)

	w := doJSON(router, http.MethodPost, "/api/v1/lifecycle/case-1/approve", `{"decision":"approve"}`, hrHeaders)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Decision Memo") {
		t.Errorf("body = %s, want the missing evidence named", w.Body.String())
	}
}

func TestOffboardCase_EmptyBodyTolerated(t *testing.T) {
	called := false
	lifecycle := &stubLifecycleService{
		offboardFunc: func(ctx context.Context, actor entity.Actor, id string, in service.OffboardInput) (*service.MutationResult, error) {
			called = true
			return stubResult(), nil
		},
	}
	router := newTestRouter(lifecycle)

	w := doJSON(router, http.MethodPost, "/api/v1/lifecycle/case-1/offboard", "", hrHeaders)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if !called {
		t.Error("offboard was not invoked")
	}
}

func TestUploadEvidence(t *testing.T) {
	t.Run("multipart upload", func(t *testing.T) {
		var gotInput service.EvidenceInput
		lifecycle := &stubLifecycleService{
			addEvidenceFunc: func(ctx context.Context, actor entity.Actor, id string, in service.EvidenceInput) (*service.MutationResult, error) {
				gotInput = in
				return stubResult(), nil
			},
		}
		router := newTestRouter(lifecycle)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "Clearance Form.pdf")
		if err != nil {
			t.Fatalf("form build failed: %v", err)
		}
		if _, err := fw.Write([]byte("%PDF-1.4")); err != nil {
			t.Fatalf("form write failed: %v", err)
		}
		_ = mw.WriteField("type", "clearance")
		_ = mw.WriteField("note", "signed copy")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/lifecycle/case-1/evidence", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		for k, v := range hrHeaders {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
		}
		if gotInput.FileName != "Clearance Form.pdf" || gotInput.DocType != "clearance" {
			t.Errorf("input = %+v", gotInput)
		}
		if string(gotInput.Content) != "%PDF-1.4" {
			t.Errorf("content = %q", gotInput.Content)
		}
	})

	t.Run("missing file field is a 400", func(t *testing.T) {
		router := newTestRouter(&stubLifecycleService{})

		w := doJSON(router, http.MethodPost, "/api/v1/lifecycle/case-1/evidence", "", hrHeaders)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestCreateEmployee_Validation(t *testing.T) {
	router := newTestRouter(&stubLifecycleService{})

	w := doJSON(router, http.MethodPost, "/api/v1/employees", `{"first_name":"Noel"}`, hrHeaders)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	body := `{"employee_number":"E-2001","first_name":"Noel","work_email":"noel@corp.test"}`
	w = doJSON(router, http.MethodPost, "/api/v1/employees", body, hrHeaders)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
}

func TestExportCaseRegister(t *testing.T) {
	router := newTestRouter(&stubLifecycleService{})

	w := doJSON(router, http.MethodGet, "/api/v1/reports/lifecycle.xlsx", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "lifecycle-register-") {
		t.Errorf("content disposition = %s", cd)
	}
}
