package loader

import (
	"context"

	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/repository"
)

// Set bundles one loader per access pattern. A Set is created fresh for
// every inbound request and discarded with it.
type Set struct {
	UserByID             *Loader[string, *models.User]
	EmployeeByID         *Loader[string, *models.Employee]
	EmployeeByUserID     *Loader[string, *models.Employee]
	SubjectByID          *Loader[string, *models.Subject]
	SubjectsOfEmployee   *Loader[string, []models.Subject]
	EmployeesOfSubject   *Loader[string, []models.Employee]
	AttendanceOfEmployee *Loader[string, []models.Attendance]
}

// Repositories are the gateway operations the loader set batches over.
type Repositories struct {
	Users      repository.UserRepository
	Employees  repository.EmployeeRepository
	Subjects   repository.SubjectRepository
	Attendance repository.AttendanceRepository
}

// NewSet builds the per-request loader set over the given repositories.
func NewSet(repos Repositories) *Set {
	emptySubjects := func(string) []models.Subject { return []models.Subject{} }
	emptyEmployees := func(string) []models.Employee { return []models.Employee{} }
	emptyAttendance := func(string) []models.Attendance { return []models.Attendance{} }

	return &Set{
		UserByID: New("user_by_id",
			func(ctx context.Context, ids []string) (map[string]*models.User, error) {
				users, err := repos.Users.ListByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				byID := make(map[string]*models.User, len(users))
				for i := range users {
					byID[users[i].ID] = &users[i]
				}
				return byID, nil
			}),

		EmployeeByID: New("employee_by_id",
			func(ctx context.Context, ids []string) (map[string]*models.Employee, error) {
				employees, err := repos.Employees.ListByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				byID := make(map[string]*models.Employee, len(employees))
				for i := range employees {
					byID[employees[i].ID] = &employees[i]
				}
				return byID, nil
			}),

		EmployeeByUserID: New("employee_by_user_id",
			func(ctx context.Context, userIDs []string) (map[string]*models.Employee, error) {
				employees, err := repos.Employees.ListByUserIDs(ctx, userIDs)
				if err != nil {
					return nil, err
				}
				byUserID := make(map[string]*models.Employee, len(employees))
				for i := range employees {
					byUserID[employees[i].UserID] = &employees[i]
				}
				return byUserID, nil
			}),

		SubjectByID: New("subject_by_id",
			func(ctx context.Context, ids []string) (map[string]*models.Subject, error) {
				subjects, err := repos.Subjects.ListByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				byID := make(map[string]*models.Subject, len(subjects))
				for i := range subjects {
					byID[subjects[i].ID] = &subjects[i]
				}
				return byID, nil
			}),

		SubjectsOfEmployee: NewWithFallback("subjects_of_employee",
			func(ctx context.Context, employeeIDs []string) (map[string][]models.Subject, error) {
				rows, err := repos.Subjects.ListByEmployeeIDs(ctx, employeeIDs)
				if err != nil {
					return nil, err
				}
				grouped := make(map[string][]models.Subject, len(employeeIDs))
				for _, row := range rows {
					grouped[row.EmployeeID] = append(grouped[row.EmployeeID], row.Subject)
				}
				return grouped, nil
			}, emptySubjects),

		EmployeesOfSubject: NewWithFallback("employees_of_subject",
			func(ctx context.Context, subjectIDs []string) (map[string][]models.Employee, error) {
				rows, err := repos.Subjects.ListEmployeesBySubjectIDs(ctx, subjectIDs)
				if err != nil {
					return nil, err
				}
				grouped := make(map[string][]models.Employee, len(subjectIDs))
				for _, row := range rows {
					grouped[row.SubjectID] = append(grouped[row.SubjectID], row.Employee)
				}
				return grouped, nil
			}, emptyEmployees),

		// Rows arrive ordered by date descending; grouping preserves
		// that order within each key.
		AttendanceOfEmployee: NewWithFallback("attendance_of_employee",
			func(ctx context.Context, employeeIDs []string) (map[string][]models.Attendance, error) {
				records, err := repos.Attendance.ListByEmployeeIDs(ctx, employeeIDs)
				if err != nil {
					return nil, err
				}
				grouped := make(map[string][]models.Attendance, len(employeeIDs))
				for _, record := range records {
					grouped[record.EmployeeID] = append(grouped[record.EmployeeID], record)
				}
				return grouped, nil
			}, emptyAttendance),
	}
}

type contextKey struct{}

// NewContext attaches a loader set to a request context.
func NewContext(ctx context.Context, set *Set) context.Context {
	return context.WithValue(ctx, contextKey{}, set)
}

// FromContext extracts the request's loader set, or nil when none was
// attached.
func FromContext(ctx context.Context) *Set {
	set, _ := ctx.Value(contextKey{}).(*Set)
	return set
}
