package core

// # Error Codes Reference
//
// This file maps errors to user-facing messages with codes for support
// reference. A user who quotes a code lets support find the rule that
// produced it without the original workbook.
//
// # Workbook Errors
//
// A *ValidationError maps by its kind, regardless of message text:
//
//	SCH001 - Schema: a sheet or column is missing, or a column pattern is ambiguous
//	         Action: Compare the sheet and column headers with the template
//
//	VAL010 - Value: a cell does not have the expected format or allowed value
//	         Action: Correct the cell named in the message
//
//	REF001 - Referential: an id refers to a missing parent, or a parent has no children
//	         Action: Check the ids named in the message across both sheets
//
//	CRD001 - Cardinality: wrong number of rows, or a duplicate id
//	         Action: Remove duplicates or add the missing rows
//
//	DEP001 - Dependency: a column must (or must not) be filled because of another column
//	         Action: Fill or clear the dependent cell named in the message
//
// # Store Errors (DB001-DB099)
//
//	DB001 - Duplicate document id          Patterns: "duplicate key", "unique constraint", "already exists"
//	DB002 - Store unreachable              Patterns: "connection refused", "no such host"
//	DB003 - Connection interrupted         Patterns: "connection reset"
//	DB004 - Store busy                     Patterns: "database is locked", "deadlock"
//	DB005 - Timeout                        Patterns: "timeout"
//	DB006 - Store not initialised          Patterns: "no such table", "does not exist", "not initialized"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large               Patterns: "file too large", "request body too large"
//	FILE002 - Not an .xlsx workbook        Patterns: "not a valid zip", "unsupported workbook"
//	FILE003 - File not found               Patterns: "no such file"
//	FILE004 - No file uploaded             Patterns: "no file provided"
//
// # Publish and Request Errors (UPL001-UPL099)
//
//	UPL001 - Publish aborted by the operator      Patterns: "aborted"
//	UPL002 - Too many workbooks being checked     Patterns: "too many uploads"
//	UPL003 - Upload id not found                  Patterns: "upload not found"
//	UPL004 - Request cancelled                    Patterns: "context canceled"
//	UPL005 - Request timed out                    Patterns: "context deadline exceeded"
//
// # Other
//
//	KND001  - Unknown workbook kind        Patterns: "unknown workbook kind"
//	DOC001  - Malformed document bundle    Patterns: "malformed document bundle"
//	RATE001 - Too many requests            Patterns: "rate limit"
//	ERR000  - Anything else; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/check"
)

// ErrAborted is returned when the operator declines a confirmation prompt.
var ErrAborted = errors.New("aborted by operator, nothing was written")

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var validationMessages = map[check.Kind]UserMessage{
	check.Schema: {
		Message: "The workbook does not have the expected sheets or columns",
		Action:  "Compare the sheet and column headers with the template",
		Code:    "SCH001",
	},
	check.Value: {
		Message: "A cell does not have the expected format or value",
		Action:  "Correct the cell named in the message",
		Code:    "VAL010",
	},
	check.Referential: {
		Message: "An id does not match between two sheets",
		Action:  "Check the ids named in the message across both sheets",
		Code:    "REF001",
	},
	check.Cardinality: {
		Message: "A sheet has the wrong number of rows or a duplicate id",
		Action:  "Remove duplicates or add the missing rows",
		Code:    "CRD001",
	},
	check.Dependency: {
		Message: "A column's value depends on another column",
		Action:  "Fill or clear the dependent cell named in the message",
		Code:    "DEP001",
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Store
	{"duplicate key", UserMessage{"A document with this id already exists", "Publish with replace, or roll back the earlier upload", "DB001"}},
	{"unique constraint", UserMessage{"A document with this id already exists", "Publish with replace, or roll back the earlier upload", "DB001"}},
	{"already exists", UserMessage{"A document with this id already exists", "Publish with replace, or roll back the earlier upload", "DB001"}},
	{"connection refused", UserMessage{"Unable to connect to the document store", "Check STORE_URL and try again in a few moments", "DB002"}},
	{"no such host", UserMessage{"Unable to connect to the document store", "Check STORE_URL and try again in a few moments", "DB002"}},
	{"connection reset", UserMessage{"Document store connection was interrupted", "Please try again", "DB003"}},
	{"database is locked", UserMessage{"The document store is busy", "Please try again", "DB004"}},
	{"deadlock", UserMessage{"The document store is busy", "Please try again", "DB004"}},

	// Files
	{"file too large", UserMessage{"The workbook exceeds the maximum upload size", "Remove unused sheets or images and try again", "FILE001"}},
	{"request body too large", UserMessage{"The workbook exceeds the maximum upload size", "Remove unused sheets or images and try again", "FILE001"}},
	{"not a valid zip", UserMessage{"The file is not an .xlsx workbook", "Save the file as Excel Workbook (.xlsx)", "FILE002"}},
	{"unsupported workbook", UserMessage{"The file is not an .xlsx workbook", "Save the file as Excel Workbook (.xlsx)", "FILE002"}},
	{"no such file", UserMessage{"The file was not found", "Check the path and try again", "FILE003"}},
	{"no file provided", UserMessage{"No workbook was uploaded", "Select an .xlsx file to check", "FILE004"}},

	// Publish and requests
	{"aborted", UserMessage{"Publishing was aborted", "Nothing was written; run publish again when ready", "UPL001"}},
	{"too many uploads", UserMessage{"Too many workbooks are being checked", "Please wait a moment and try again", "UPL002"}},
	{"upload not found", UserMessage{"No documents belong to this upload id", "List uploads with the history command", "UPL003"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL004"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try again, or check a smaller workbook", "UPL005"}},

	// Checked after the context patterns so deadline errors keep their code.
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB005"}},
	{"no such table", UserMessage{"The document store has not been initialised", "Run the init-db command first", "DB006"}},
	{"does not exist", UserMessage{"The document store has not been initialised", "Run the init-db command first", "DB006"}},
	{"not initialized", UserMessage{"The document store has not been initialised", "Run the init-db command first", "DB006"}},

	{"unknown workbook kind", UserMessage{"Unknown workbook kind", "Use one of the kinds listed by the server or --help", "KND001"}},
	{"malformed document bundle", UserMessage{"The document file is not a valid bundle", "Generate it again with the parse command", "DOC001"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. Validation errors
// map by kind; everything else by the first pattern found in the message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if ve, ok := AsValidationError(err); ok {
		if msg, ok := validationMessages[ve.Kind]; ok {
			return msg
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
