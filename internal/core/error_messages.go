// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// The import report prints the code next to each failure so operators can look it up.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate email: A user with this email already exists
//	        Patterns: "duplicate email"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "duplicate key", "unique constraint"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB008 - Authentication failed: Database rejected the credentials
//	        Patterns: "password authentication failed", "sqlstate 28p01", "sqlstate 28000"
//
//	DB009 - Unknown database: Target database does not exist
//	        Patterns: "sqlstate 3d000", "unknown database"
//
//	DB010 - Missing table: The users table does not exist
//	        Patterns: "no such table", "sqlstate 42p01"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL003 - Required field: Required field is empty
//	         Patterns: "required field"
//
//	VAL007 - Invalid email: Email address is not valid
//	         Patterns: "invalid email"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large        Patterns: "file too large"
//	FILE002 - Invalid CSV           Patterns: "invalid csv"
//	FILE003 - Encoding error        Patterns: "encoding error"
//	FILE004 - No file               Patterns: "no file provided"
//	FILE005 - Empty file            Patterns: "empty file"
//	FILE006 - No data rows          Patterns: "no data rows"
//	FILE007 - File not found        Patterns: "no such file or directory"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The run was interrupted
//	         Patterns: "context canceled"
//
//	RUN002 - Deadline: The run exceeded IMPORT_TIMEOUT
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the logs for the
// technical error, they carry the same run_id as the report.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are
// defined before general ones.

package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors
	// =========================================================================
	{
		pattern: "duplicate email",
		msg: UserMessage{
			Message: "A user with this email already exists",
			Action:  "Remove the duplicate row or the existing user",
			Code:    "DB001",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries in your CSV",
			Code:    "DB002",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries in your CSV",
			Code:    "DB002",
		},
	},

	// =========================================================================
	// Database Connection Errors
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check the host (-h) and that the server is running",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Check the database host or raise DB_CONNECT_TIMEOUT",
			Code:    "DB006",
		},
	},
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user (-u) and password (-p)",
			Code:    "DB008",
		},
	},
	{
		pattern: "sqlstate 28p01",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user (-u) and password (-p)",
			Code:    "DB008",
		},
	},
	{
		pattern: "sqlstate 28000",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user (-u) and password (-p)",
			Code:    "DB008",
		},
	},
	{
		pattern: "sqlstate 3d000",
		msg: UserMessage{
			Message: "Target database does not exist",
			Action:  "Run with --create_table first",
			Code:    "DB009",
		},
	},
	{
		pattern: "unknown database",
		msg: UserMessage{
			Message: "Target database does not exist",
			Action:  "Run with --create_table first",
			Code:    "DB009",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The users table does not exist",
			Action:  "Run with --create_table first",
			Code:    "DB010",
		},
	},
	{
		pattern: "sqlstate 42p01",
		msg: UserMessage{
			Message: "The users table does not exist",
			Action:  "Run with --create_table first",
			Code:    "DB010",
		},
	},

	// =========================================================================
	// Validation Errors
	// =========================================================================
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Every row needs a name, surname and email",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid email",
		msg: UserMessage{
			Message: "Email address is not valid",
			Action:  "Use the form local-part@example.com",
			Code:    "VAL007",
		},
	},

	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file or raise IMPORT_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is a comma-separated .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File encoding is not supported",
			Action:  "Save the file as UTF-8 or set IMPORT_ENCODING",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was given",
			Action:  "Pass the CSV file with --file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Provide a CSV file with a header and data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file has a header but no data rows",
			Action:  "Add at least one user row",
			Code:    "FILE006",
		},
	},
	{
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "File not found",
			Action:  "Check the path passed to --file",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Run Errors
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was interrupted",
			Action:  "Run the import again; rows already inserted are reported as duplicates",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The run took too long",
			Action:  "Raise IMPORT_TIMEOUT or split the file",
			Code:    "RUN002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for this run",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Row validation errors and duplicate emails are classified by type, since
// their text carries user-supplied values. Everything else is matched against
// known error patterns (case-insensitive), first match wins. If no pattern
// matches, a generic fallback message with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if code := typedCode(err); code != "" {
		for _, ep := range errorPatterns {
			if ep.msg.Code == code {
				return ep.msg
			}
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// typedCode returns the code for errors whose kind is known without looking
// at their text.
func typedCode(err error) string {
	var verr ValidationError
	if errors.As(err, &verr) {
		switch verr.Reason {
		case ReasonMissingField:
			return "VAL003"
		case ReasonInvalidEmail:
			return "VAL007"
		}
	}
	if errors.Is(err, ErrDuplicateEmail) {
		return "DB001"
	}
	return ""
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
