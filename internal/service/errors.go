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

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrQuotationNotFound is returned when a quotation is not found
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrTemplateNotFound is returned when a PDF template is not found
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidStatus is returned for an unknown quotation status
	ErrInvalidStatus = errors.New("invalid quotation status")

	// ErrInvalidCredentials is returned when a login fails
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrFileNotFound is returned when a file is not found
	ErrFileNotFound = errors.New("file not found")

	// ErrFormFieldNotFound is returned when a form field is not found
	ErrFormFieldNotFound = errors.New("form field not found")
)
