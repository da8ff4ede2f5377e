// Package pagination normalizes untrusted list arguments into a bounded
// query descriptor and computes page-boundary metadata from total counts.
package pagination

import (
	"fmt"

	"github.com/staffdeck/attendance-service/internal/apperrors"
)

const (
	// DefaultTake is the page size applied when the client sends none.
	DefaultTake = 10
	// MaxTake is the hard upper bound preventing unbounded result sets.
	MaxTake = 100

	maxNameFilterLen  = 100
	maxClassFilterLen = 50
	maxFilterAge      = 150
)

// sortColumns is the allow-list of sortable fields mapped to their
// database columns. Anything outside this map is rejected.
var sortColumns = map[string]string{
	"name":      "name",
	"age":       "age",
	"class":     "class",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// RawParams carries client-supplied list arguments before validation.
// Nil fields take defaults.
type RawParams struct {
	Skip      *int    `json:"skip" form:"skip"`
	Take      *int    `json:"take" form:"take"`
	SortBy    *string `json:"sortBy" form:"sortBy"`
	SortOrder *string `json:"sortOrder" form:"sortOrder"`
}

// Params is a validated, bounded query descriptor.
type Params struct {
	Skip      int
	Take      int
	SortBy    string
	SortOrder string
}

// OrderClause returns the SQL ordering expression for the params. Safe to
// interpolate because SortBy is restricted to the allow-list column names.
func (p Params) OrderClause() string {
	return sortColumns[p.SortBy] + " " + p.SortOrder
}

// Normalize validates raw list arguments and fills defaults. Violations
// fail with InvalidInput carrying per-field messages.
func Normalize(raw RawParams) (Params, error) {
	params := Params{
		Skip:      0,
		Take:      DefaultTake,
		SortBy:    "createdAt",
		SortOrder: "desc",
	}
	var fields []apperrors.FieldError

	if raw.Skip != nil {
		if *raw.Skip < 0 {
			fields = append(fields, apperrors.FieldError{
				Field: "skip", Message: "must be a non-negative integer",
			})
		} else {
			params.Skip = *raw.Skip
		}
	}

	if raw.Take != nil {
		if *raw.Take < 1 || *raw.Take > MaxTake {
			fields = append(fields, apperrors.FieldError{
				Field:   "take",
				Message: fmt.Sprintf("must be between 1 and %d", MaxTake),
			})
		} else {
			params.Take = *raw.Take
		}
	}

	if raw.SortBy != nil {
		if _, ok := sortColumns[*raw.SortBy]; !ok {
			fields = append(fields, apperrors.FieldError{
				Field: "sortBy", Message: "must be one of name, age, class, createdAt, updatedAt",
			})
		} else {
			params.SortBy = *raw.SortBy
		}
	}

	if raw.SortOrder != nil {
		if *raw.SortOrder != "asc" && *raw.SortOrder != "desc" {
			fields = append(fields, apperrors.FieldError{
				Field: "sortOrder", Message: "must be asc or desc",
			})
		} else {
			params.SortOrder = *raw.SortOrder
		}
	}

	if len(fields) > 0 {
		return Params{}, apperrors.InvalidInput(fields...)
	}
	return params, nil
}

// Filter carries optional employee list constraints. Absent fields impose
// no constraint; text fields match case-insensitive substrings.
type Filter struct {
	Name     *string `json:"name" form:"name"`
	Class    *string `json:"class" form:"class"`
	AgeMin   *int    `json:"ageMin" form:"ageMin"`
	AgeMax   *int    `json:"ageMax" form:"ageMax"`
	IsActive *bool   `json:"isActive" form:"isActive"`
}

// ValidateFilter applies field-level caps before the filter is translated
// into a query predicate.
func ValidateFilter(f Filter) error {
	var fields []apperrors.FieldError

	if f.Name != nil && len(*f.Name) > maxNameFilterLen {
		fields = append(fields, apperrors.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("must be at most %d characters", maxNameFilterLen),
		})
	}
	if f.Class != nil && len(*f.Class) > maxClassFilterLen {
		fields = append(fields, apperrors.FieldError{
			Field:   "class",
			Message: fmt.Sprintf("must be at most %d characters", maxClassFilterLen),
		})
	}
	if f.AgeMin != nil && (*f.AgeMin < 0 || *f.AgeMin > maxFilterAge) {
		fields = append(fields, apperrors.FieldError{
			Field: "ageMin", Message: fmt.Sprintf("must be between 0 and %d", maxFilterAge),
		})
	}
	if f.AgeMax != nil && (*f.AgeMax < 0 || *f.AgeMax > maxFilterAge) {
		fields = append(fields, apperrors.FieldError{
			Field: "ageMax", Message: fmt.Sprintf("must be between 0 and %d", maxFilterAge),
		})
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		fields = append(fields, apperrors.FieldError{
			Field: "ageMin", Message: "must not exceed ageMax",
		})
	}

	if len(fields) > 0 {
		return apperrors.InvalidInput(fields...)
	}
	return nil
}

// Page is one page of results plus boundary metadata.
type Page[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"total_count"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// BuildPage computes page metadata. It is a pure function of its inputs
// and exact at boundaries: skip+take == totalCount means no next page.
func BuildPage[T any](items []T, totalCount int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:           items,
		TotalCount:      totalCount,
		HasNextPage:     int64(params.Skip+params.Take) < totalCount,
		HasPreviousPage: params.Skip > 0,
	}
}
