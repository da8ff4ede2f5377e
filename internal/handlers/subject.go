package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/loader"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/service"
)

// SubjectHandler handles subject HTTP requests.
type SubjectHandler struct {
	subjectService service.SubjectService
	gate           *policy.Gate
}

// NewSubjectHandler creates a new SubjectHandler instance.
func NewSubjectHandler(subjectService service.SubjectService, gate *policy.Gate) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, gate: gate}
}

// CreateSubjectRequest represents the subject creation payload.
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// AssignSubjectRequest represents the subject assignment payload.
type AssignSubjectRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
}

// SubjectWithEmployees is one subject with its assigned employees
// resolved through the batching loaders.
type SubjectWithEmployees struct {
	models.Subject
	Employees []models.Employee `json:"employees"`
}

// List godoc
// @Summary List subjects
// @Tags subjects
// @Security BearerAuth
// @Produce json
// @Success 200 {array} SubjectWithEmployees
// @Failure 403 {object} ErrorResponse
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	subjects, err := h.subjectService.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	// One batched lookup resolves the employee lists for every subject.
	loaders := loader.FromContext(ctx)
	thunks := make([]loader.Thunk[[]models.Employee], len(subjects))
	for i := range subjects {
		thunks[i] = loaders.EmployeesOfSubject.Load(ctx, subjects[i].ID)
	}

	items := make([]SubjectWithEmployees, len(subjects))
	for i := range subjects {
		employees, err := thunks[i]()
		if err != nil {
			respondError(c, apperrors.Internal(err))
			return
		}
		items[i] = SubjectWithEmployees{Subject: subjects[i], Employees: employees}
	}

	c.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary Create a subject
// @Tags subjects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateSubjectRequest true "Subject name"
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "name", Message: "is required"}))
		return
	}

	subject, err := h.subjectService.Create(ctx, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// Delete godoc
// @Summary Delete a subject
// @Description Removes the subject and its employee links; employees stay
// @Tags subjects
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	if err := h.subjectService.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subject deleted"})
}

// Assign godoc
// @Summary Assign a subject to an employee
// @Tags subjects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param request body AssignSubjectRequest true "Employee to assign"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /subjects/{id}/assign [post]
func (h *SubjectHandler) Assign(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	var req AssignSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "employee_id", Message: "is required"}))
		return
	}

	if err := h.subjectService.Assign(ctx, c.Param("id"), req.EmployeeID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subject assigned"})
}
