// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure class of the generator pipeline
var (
	ErrNotFound         = errors.New("data model not found")
	ErrParse            = errors.New("malformed data model")
	ErrMissingField     = errors.New("required field missing")
	ErrUnknownDevice    = errors.New("unknown device")
	ErrTemplateNotFound = errors.New("template not found")
	ErrRender           = errors.New("template rendering failed")
	ErrValidationFailed = errors.New("validation failed")
)

// MissingFieldError reports a field the variable mapping needs but the
// data model does not carry. Path is dotted, e.g. "fabric.bgp_asn".
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Path)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// NewMissingFieldError creates a missing field error
func NewMissingFieldError(path string) *MissingFieldError {
	return &MissingFieldError{Path: path}
}

// UnknownDeviceError represents a hostname absent from every role list
type UnknownDeviceError struct {
	Device string
}

func (e *UnknownDeviceError) Error() string {
	return fmt.Sprintf("device '%s' not found in data model", e.Device)
}

func (e *UnknownDeviceError) Unwrap() error {
	return ErrUnknownDevice
}

// NewUnknownDeviceError creates an unknown device error
func NewUnknownDeviceError(device string) *UnknownDeviceError {
	return &UnknownDeviceError{Device: device}
}

// TemplateNotFoundError represents a template name outside the catalog or a
// catalog entry with no file in the templates directory.
type TemplateNotFoundError struct {
	Template  string
	Available []string
}

func (e *TemplateNotFoundError) Error() string {
	msg := fmt.Sprintf("template %s not found", e.Template)
	if len(e.Available) > 0 {
		msg += ". Available: " + strings.Join(e.Available, ", ")
	}
	return msg
}

func (e *TemplateNotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

// NewTemplateNotFoundError creates a template-not-found error
func NewTemplateNotFoundError(template string, available ...string) *TemplateNotFoundError {
	return &TemplateNotFoundError{Template: template, Available: available}
}

// RenderError wraps a templating engine failure. Prior holds the failure of
// an earlier attempt when a fallback render was tried and also failed.
type RenderError struct {
	Template string
	Err      error
	Prior    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("error rendering template %s: %v", e.Template, e.Err)
	if e.Prior != nil {
		msg += fmt.Sprintf(" (composed render: %v)", e.Prior)
	}
	return msg
}

// Unwrap exposes both the sentinel and the engine error.
func (e *RenderError) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

// NewRenderError creates a render error
func NewRenderError(template string, err error) *RenderError {
	return &RenderError{Template: template, Err: err}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// Messages returns the accumulated messages in insertion order.
func (v *ValidationBuilder) Messages() []string {
	return v.errors
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
