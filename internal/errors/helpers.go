package errors

import (
	"errors"
)

// GetCode extracts the code from an error. Nil is OK and foreign errors are
// INTERNAL.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMeta extracts the metadata of the outermost *Error
func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Meta
	}
	return nil
}

// GetMessage extracts the user-facing message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HasCode reports whether err carries code
func HasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool { return HasCode(err, CodeInvalidArgument) }

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool { return HasCode(err, CodeAlreadyExists) }

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool { return HasCode(err, CodeInternal) }

// IsCanceled checks if an error is a canceled error
func IsCanceled(err error) bool { return HasCode(err, CodeCanceled) }

// IsUnavailable checks if a backing store or peer could not be reached
func IsUnavailable(err error) bool { return HasCode(err, CodeUnavailable) }

// IsContentDefinition checks if an error reports inconsistent game content
func IsContentDefinition(err error) bool { return HasCode(err, CodeContentDefinition) }
