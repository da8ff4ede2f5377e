package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/loader"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/service"
)

const dateLayout = "2006-01-02"

// AttendanceHandler handles attendance HTTP requests.
type AttendanceHandler struct {
	attendanceService service.AttendanceService
	gate              *policy.Gate
}

// NewAttendanceHandler creates a new AttendanceHandler instance.
func NewAttendanceHandler(attendanceService service.AttendanceService, gate *policy.Gate) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, gate: gate}
}

// MarkRequest represents the attendance mark payload.
type MarkRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Present    bool   `json:"present"`
}

// Mark godoc
// @Summary Mark attendance
// @Description Upsert the attendance status for one employee and date
// @Tags attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body MarkRequest true "Attendance mark"
// @Success 200 {object} models.Attendance
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.gate.Authorize(ctx, policy.FromContext(ctx), policy.Requirement{AdminOnly: true}); err != nil {
		respondError(c, err)
		return
	}

	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "body", Message: err.Error()}))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "date", Message: "must be formatted YYYY-MM-DD"}))
		return
	}

	record, err := h.attendanceService.Mark(ctx, service.MarkAttendanceInput{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Present:    req.Present,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListByEmployee godoc
// @Summary List attendance for one employee
// @Description Records ordered by date descending, optional date range
// @Tags attendance
// @Security BearerAuth
// @Produce json
// @Param id path string true "Employee ID"
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Attendance
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id}/attendance [get]
func (h *AttendanceHandler) ListByEmployee(c *gin.Context) {
	ctx := c.Request.Context()

	employee, err := loader.FromContext(ctx).EmployeeByID.LoadValue(ctx, c.Param("id"))
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

	start, err := parseDateParam(c.Query("start"))
	if err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "start", Message: "must be formatted YYYY-MM-DD"}))
		return
	}
	end, err := parseDateParam(c.Query("end"))
	if err != nil {
		respondError(c, apperrors.InvalidInput(apperrors.FieldError{Field: "end", Message: "must be formatted YYYY-MM-DD"}))
		return
	}

	records, err := h.attendanceService.ListByEmployee(ctx, employee.ID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
