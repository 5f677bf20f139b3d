package errors

import "fmt"

// ErrorCode represents a specdash error code.
type ErrorCode string

const (
	ErrProjectNotFound     ErrorCode = "PROJECT_NOT_FOUND"     // exit 1
	ErrConstitutionMissing ErrorCode = "CONSTITUTION_MISSING"  // exit 3
	ErrOutputNotWritable   ErrorCode = "OUTPUT_NOT_WRITABLE"   // exit 4
	ErrAssemblyFailed      ErrorCode = "ASSEMBLY_FAILED"       // exit 5
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrInternal            ErrorCode = "INTERNAL"
)

// DashError represents a structured error with code, exit status, and details.
type DashError struct {
	Code    ErrorCode
	Exit    int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DashError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewProjectNotFound creates an exit-1 error for a missing project directory.
func NewProjectNotFound(path string) *DashError {
	return &DashError{
		Code:    ErrProjectNotFound,
		Exit:    1,
		Message: fmt.Sprintf("project directory not found: %s (verify the path is correct)", path),
		Details: map[string]any{"path": path},
	}
}

// NewConstitutionMissing creates an exit-3 error for a project without a
// CONSTITUTION.md at its root.
func NewConstitutionMissing(path string) *DashError {
	return &DashError{
		Code:    ErrConstitutionMissing,
		Exit:    3,
		Message: "CONSTITUTION.md not found in project root",
		Details: map[string]any{"path": path},
	}
}

// NewOutputNotWritable creates an exit-4 error when the snapshot cannot be
// written.
func NewOutputNotWritable(outputPath string, err error) *DashError {
	return &DashError{
		Code:    ErrOutputNotWritable,
		Exit:    4,
		Message: fmt.Sprintf("permission denied writing to %s (check directory permissions)", outputPath),
		Details: map[string]any{"output_path": outputPath, "cause": fmt.Sprint(err)},
	}
}

// NewAssemblyFailed creates an exit-5 error when a feature's artifacts
// cannot be assembled.
func NewAssemblyFailed(featureID string, cause any) *DashError {
	return &DashError{
		Code:    ErrAssemblyFailed,
		Exit:    5,
		Message: fmt.Sprintf("parser failed on specs/%s/spec.md: %v (check artifact syntax)", featureID, cause),
		Details: map[string]any{"feature_id": featureID},
	}
}

// NewInvalidRequest creates an error for invalid request parameters.
func NewInvalidRequest(msg string) *DashError {
	return &DashError{
		Code:    ErrInvalidRequest,
		Exit:    1,
		Message: msg,
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *DashError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DashError{
		Code:    ErrInternal,
		Exit:    5,
		Message: msg,
	}
}

// Is checks if an error is a DashError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DashError); ok {
		return dErr.Code == code
	}
	return false
}

// ExitCode returns the exit status for an error, 5 for non-DashErrors.
func ExitCode(err error) int {
	if dErr, ok := err.(*DashError); ok {
		return dErr.Exit
	}
	return 5
}
