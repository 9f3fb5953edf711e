package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrEmployeeNotFound is returned when an employee is not found
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrTimesheetNotFound is returned when a timesheet row is not found
	ErrTimesheetNotFound = errors.New("timesheet not found")

	// ErrOpportunityNotFound is returned when a pipeline opportunity is not found
	ErrOpportunityNotFound = errors.New("pipeline opportunity not found")

	// ErrScenarioNotFound is returned when a scenario is not found
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrUnsupportedFile is returned when an uploaded file is not a workbook
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrNoSheetsSelected is returned when an import request selects no sheets
	ErrNoSheetsSelected = errors.New("no sheets selected for import")
)
