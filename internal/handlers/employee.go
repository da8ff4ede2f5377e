package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/loader"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/pagination"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/service"
)

// missingOwner is the ownership marker for resources that do not exist.
// It can never equal a caller's user id, so non-admin callers fail the
// ownership check before existence is revealed to them.
const missingOwner = "missing"

// EmployeeHandler handles employee HTTP requests.
type EmployeeHandler struct {
	employeeService service.EmployeeService
	gate            *policy.Gate
}

// NewEmployeeHandler creates a new EmployeeHandler instance.
func NewEmployeeHandler(employeeService service.EmployeeService, gate *policy.Gate) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, gate: gate}
}

// EmployeeWithSubjects is one employee list item with its subjects
// resolved through the batching loaders.
type EmployeeWithSubjects struct {
	models.Employee
	Subjects []models.Subject `json:"subjects"`
}

// EmployeeDetail is the full nested view of one employee.
type EmployeeDetail struct {
	models.Employee
	Subjects   []models.Subject    `json:"subjects"`
	Attendance []models.Attendance `json:"attendance"`
}

// ListRequest bundles pagination and filter query parameters.
type ListRequest struct {
	pagination.RawParams
	pagination.Filter
}

// List godoc
// @Summary List employees
// @Description Page through employees with filtering and sorting
// @Tags employees
// @Security BearerAuth
// @Produce json
// @Success 200 {object} pagination.Page[EmployeeWithSubjects]
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "query", Message: err.Error()}))
		return
	}

	page, err := h.employeeService.List(ctx, req.RawParams, req.Filter)
	if err != nil {
		respondError(c, err)
		return
	}

	// Two-phase resolution: register every employee's subject lookup
	// before resolving any thunk, so the whole page costs one subjects
	// query instead of one per row.
	loaders := loader.FromContext(ctx)
	thunks := make([]loader.Thunk[[]models.Subject], len(page.Items))
	for i := range page.Items {
		thunks[i] = loaders.SubjectsOfEmployee.Load(ctx, page.Items[i].ID)
	}

	items := make([]EmployeeWithSubjects, len(page.Items))
	for i := range page.Items {
		subjects, err := thunks[i]()
		if err != nil {
			respondError(c, apperrors.Internal(err))
			return
		}
		items[i] = EmployeeWithSubjects{Employee: page.Items[i], Subjects: subjects}
	}

	c.JSON(http.StatusOK, pagination.Page[EmployeeWithSubjects]{
		Items:           items,
		TotalCount:      page.TotalCount,
		HasNextPage:     page.HasNextPage,
		HasPreviousPage: page.HasPreviousPage,
	})
}

// Get godoc
// @Summary Get one employee
// @Description Fetch an employee with user, subjects and attendance
// @Tags employees
// @Security BearerAuth
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} EmployeeDetail
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	loaders := loader.FromContext(ctx)

	employee, err := loaders.EmployeeByID.LoadValue(ctx, c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	owner := missingOwner
	if employee != nil {
		owner = employee.UserID
	}
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{OwnerUserID: owner}); err != nil {
		respondError(c, err)
		return
	}
	if employee == nil {
		respondError(c, apperrors.NotFound("employee"))
		return
	}

	// Register the nested lookups, then resolve.
	userThunk := loaders.UserByID.Load(ctx, employee.UserID)
	subjectsThunk := loaders.SubjectsOfEmployee.Load(ctx, employee.ID)
	attendanceThunk := loaders.AttendanceOfEmployee.Load(ctx, employee.ID)

	user, err := userThunk()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	subjects, err := subjectsThunk()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	attendance, err := attendanceThunk()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	detail := EmployeeDetail{Employee: *employee, Subjects: subjects, Attendance: attendance}
	detail.User = user
	c.JSON(http.StatusOK, detail)
}

// MyProfile godoc
// @Summary Get own profile
// @Tags employees
// @Security BearerAuth
// @Produce json
// @Success 200 {object} EmployeeWithSubjects
// @Failure 404 {object} ErrorResponse
// @Router /me/profile [get]
func (h *EmployeeHandler) MyProfile(c *gin.Context) {
	ctx := c.Request.Context()
	identity := policy.FromContext(ctx)
	if err := h.gate.Authorize(ctx, identity, policy.Requirement{}); err != nil {
		respondError(c, err)
		return
	}

	employee, err := h.employeeService.MyProfile(ctx, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	subjects, err := loader.FromContext(ctx).SubjectsOfEmployee.LoadValue(ctx, employee.ID)
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, EmployeeWithSubjects{Employee: *employee, Subjects: subjects})
}

// UpdateMyNameRequest represents the own-name update payload.
type UpdateMyNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateMyName godoc
// @Summary Rename own profile
// @Tags employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateMyNameRequest true "New name"
// @Success 200 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /me/name [patch]
func (h *EmployeeHandler) UpdateMyName(c *gin.Context) {
	ctx := c.Request.Context()
	identity := policy.FromContext(ctx)
	if err := h.gate.Authorize(ctx, identity, policy.Requirement{}); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateMyNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "name", Message: "is required"}))
		return
	}

	employee, err := h.employeeService.UpdateMyName(ctx, identity, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// Create godoc
// @Summary Create an employee profile
// @Tags employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.CreateEmployeeInput true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	var input service.CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "body", Message: err.Error()}))
		return
	}

	employee, err := h.employeeService.Create(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// Update godoc
// @Summary Update an employee profile
// @Tags employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body service.UpdateEmployeeInput true "Fields to update"
// @Success 200 {object} models.Employee
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	var input service.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "body", Message: err.Error()}))
		return
	}

	employee, err := h.employeeService.Update(ctx, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// Delete godoc
// @Summary Delete an employee profile
// @Description Removes the employee, its subject links and attendance
// @Tags employees
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	if err := h.employeeService.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "employee deleted"})
}
