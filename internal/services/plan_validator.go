package services

import (
	"fmt"

	"tripweaver/internal/models/response_models"
)

type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidatePlan checks the assembled plan's structural invariants. It never
// short-circuits: every defect is reported so the caller can surface all of
// them in a single pass.
func ValidatePlan(plan *response_models.TravelPlan) ValidationResult {
	var errs []string

	if plan.Title == "" {
		errs = append(errs, "missing title")
	}
	if plan.Destination == "" {
		errs = append(errs, "missing destination")
	}
	if plan.StartDate == "" {
		errs = append(errs, "missing start date")
	}
	if plan.EndDate == "" {
		errs = append(errs, "missing end date")
	}

	if plan.Itinerary == nil {
		errs = append(errs, "missing itinerary")
	} else if len(plan.Itinerary) == 0 {
		errs = append(errs, "itinerary is empty")
	}

	for i, day := range plan.Itinerary {
		if day.Day == 0 {
			errs = append(errs, fmt.Sprintf("day %d missing field day", i+1))
		}
		if day.Date == "" {
			errs = append(errs, fmt.Sprintf("day %d missing field date", i+1))
		}
		if day.Activities == nil {
			errs = append(errs, fmt.Sprintf("day %d missing field activities", i+1))
		} else if len(day.Activities) == 0 {
			errs = append(errs, fmt.Sprintf("day %d has no activities", i+1))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
