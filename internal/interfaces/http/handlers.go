package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/application/service"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

// Evidence uploads larger than this are rejected before buffering.
const maxEvidenceSize = 20 << 20 // 20 MiB

// Handlers contains all HTTP request handlers
type Handlers struct {
	lifecycleService    service.LifecycleService
	directoryService    service.DirectoryService
	notificationService service.NotificationService
	reportService       service.ReportService
	logger              Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	lifecycleService service.LifecycleService,
	directoryService service.DirectoryService,
	notificationService service.NotificationService,
	reportService service.ReportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		lifecycleService:    lifecycleService,
		directoryService:    directoryService,
		notificationService: notificationService,
		reportService:       reportService,
		logger:              logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

func (h *Handlers) fail(c *gin.Context, err error) {
	h.logger.Error("Request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(statusFor(err), Response{
		Success: false,
		Error:   err.Error(),
	})
}

func (h *Handlers) ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// HealthCheck handles GET /healthz
func (h *Handlers) HealthCheck(c *gin.Context) {
	h.ok(c, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// ListCases handles GET /api/v1/lifecycle
func (h *Handlers) ListCases(c *gin.Context) {
	filter := port.RecordFilter{
		Category:      c.Query("category"),
		Status:        c.Query("status"),
		EmployeeEmail: c.Query("employee_email"),
	}

	records, err := h.lifecycleService.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	if records == nil {
		records = []*entity.LifecycleRecord{}
	}
	h.ok(c, http.StatusOK, records)
}

// CreateCase handles POST /api/v1/lifecycle
func (h *Handlers) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	result, err := h.lifecycleService.Create(c.Request.Context(), actorFrom(c), service.CreateCaseInput{
		Category:         req.Category,
		EmployeeRecordID: req.EmployeeRecordID,
		Details:          req.Details.toEntity(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, toMutationResponse(result))
}

// GetCase handles GET /api/v1/lifecycle/:id
func (h *Handlers) GetCase(c *gin.Context) {
	rec, err := h.lifecycleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, rec)
}

// UpdateCase handles PATCH /api/v1/lifecycle/:id
func (h *Handlers) UpdateCase(c *gin.Context) {
	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}
	if req.WorkflowAction != nil {
		if err := validate.Struct(req.WorkflowAction); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
	}

	result, err := h.lifecycleService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req.toPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toMutationResponse(result))
}

// ApproveCase handles POST /api/v1/lifecycle/:id/approve
func (h *Handlers) ApproveCase(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.lifecycleService.Approve(c.Request.Context(), actorFrom(c), c.Param("id"), service.ApprovalInput{
		Decision: req.Decision,
		Note:     req.Note,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toMutationResponse(result))
}

// OffboardCase handles POST /api/v1/lifecycle/:id/offboard
func (h *Handlers) OffboardCase(c *gin.Context) {
	var req OffboardRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.lifecycleService.Offboard(c.Request.Context(), actorFrom(c), c.Param("id"), service.OffboardInput{
		Reason: req.Reason,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toMutationResponse(result))
}

// UploadEvidence handles POST /api/v1/lifecycle/:id/evidence (multipart)
func (h *Handlers) UploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file field is required"})
		return
	}
	if fileHeader.Size > maxEvidenceSize {
		c.JSON(http.StatusRequestEntityTooLarge, Response{Success: false, Error: "file exceeds 20 MiB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxEvidenceSize+1))
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.lifecycleService.AddEvidence(c.Request.Context(), actorFrom(c), c.Param("id"), service.EvidenceInput{
		FileName:    fileHeader.Filename,
		DocType:     c.PostForm("type"),
		Note:        c.PostForm("note"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, toMutationResponse(result))
}

// RemoveEvidence handles DELETE /api/v1/lifecycle/:id/evidence/:evidenceID
func (h *Handlers) RemoveEvidence(c *gin.Context) {
	result, err := h.lifecycleService.RemoveEvidence(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("evidenceID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toMutationResponse(result))
}

// ListCaseNotifications handles GET /api/v1/lifecycle/:id/notifications
func (h *Handlers) ListCaseNotifications(c *gin.Context) {
	notifications, err := h.notificationService.GetByCaseID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if notifications == nil {
		notifications = []*entity.Notification{}
	}
	h.ok(c, http.StatusOK, notifications)
}

// ListEmployees handles GET /api/v1/employees
func (h *Handlers) ListEmployees(c *gin.Context) {
	employees, err := h.directoryService.List(c.Request.Context(), entity.EmployeeFilter{
		Department:       c.Query("department"),
		EmploymentStatus: c.Query("employment_status"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if employees == nil {
		employees = []*entity.Employee{}
	}
	h.ok(c, http.StatusOK, employees)
}

// CreateEmployee handles POST /api/v1/employees
func (h *Handlers) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	emp, err := h.directoryService.Create(c.Request.Context(), actorFrom(c), req.toEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, emp)
}

// GetEmployee handles GET /api/v1/employees/:id
func (h *Handlers) GetEmployee(c *gin.Context) {
	emp, err := h.directoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, emp)
}

// UpdateEmployee handles PATCH /api/v1/employees/:id
func (h *Handlers) UpdateEmployee(c *gin.Context) {
	var patch entity.EmployeePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	emp, err := h.directoryService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, emp)
}

// ExportCaseRegister handles GET /api/v1/reports/lifecycle.xlsx
func (h *Handlers) ExportCaseRegister(c *gin.Context) {
	content, name, err := h.reportService.CaseRegister(c.Request.Context(), port.RecordFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
