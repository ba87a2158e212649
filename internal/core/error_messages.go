// Package core provides the ingestion pipeline for worker-directory records.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Operators can quote the code when asking for help.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Patterns: "file too large"
//
//	FILE003 - Encoding error: File is not readable text
//	          Patterns: "encoding error"
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Too many files: Batch has more files than allowed
//	          Patterns: "too many files"
//
//	FILE010 - Unsupported type: only .csv, .tsv and .txt are read
//	FILE011 - Unsupported format: PDF/DOC files must be pasted as text
//	FILE012 - Read or parse error: the file content could not be read
//
// FILE010-FILE012 are attached to unparsed-file entries by reason code
// (see MapReason), not by pattern.
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: the roster session expired or never existed
//	         Patterns: "session not found"
//
//	SES002 - Too many sessions: the server is at its session limit
//	         Patterns: "too many sessions"
//
// # Ingest Errors (ING001-ING099)
//
//	ING001 - System busy: too many batches are being ingested
//	         Patterns: "too many concurrent ingests"
//
// # Validation Errors (VAL010-VAL099)
//
//	VAL010 - Unknown category: not a member of the canonical taxonomy
//	         Patterns: "unknown category"
//
//	VAL011 - Invalid taxonomy: taxonomy file is malformed
//	         Patterns: "invalid taxonomy"
//
// # Request Errors (REQ001, UPL004-UPL005)
//
//	REQ001 - Invalid request: malformed form or JSON body
//	         Patterns: "invalid request"
//
//	UPL004 - Request cancelled (Patterns: "context canceled")
//	UPL005 - Request timeout (Patterns: "context deadline exceeded")
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests (Patterns: "rate limit")
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains; first match wins.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the roster into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File is not readable text",
			Action:  "Export the roster as CSV, TSV or plain text",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select at least one .csv, .tsv or .txt file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "Too many files in one batch",
			Action:  "Upload the files in smaller batches",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Session Errors
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Roster session not found",
			Action:  "The session may have expired. Start a new roster",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "Too many open roster sessions",
			Action:  "Please wait a moment and try again",
			Code:    "SES002",
		},
	},

	// =========================================================================
	// Ingest Errors
	// =========================================================================
	{
		pattern: "too many concurrent ingests",
		msg: UserMessage{
			Message: "System is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "ING001",
		},
	},

	// =========================================================================
	// Validation Errors
	// =========================================================================
	{
		pattern: "unknown category",
		msg: UserMessage{
			Message: "Category is not part of the taxonomy",
			Action:  "Pick one of the listed categories",
			Code:    "VAL010",
		},
	},
	{
		pattern: "invalid taxonomy",
		msg: UserMessage{
			Message: "Taxonomy file is invalid",
			Action:  "Check field names and categories in the taxonomy file",
			Code:    "VAL011",
		},
	},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the form fields or JSON body and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// reasonMessages explains each unparsed-file reason code.
var reasonMessages = map[ReasonCode]UserMessage{
	ReasonUnsupportedType: {
		Message: "Unsupported file type",
		Action:  "Use a .csv, .tsv or .txt file",
		Code:    "FILE010",
	},
	ReasonUnsupportedFormat: {
		Message: "This format cannot be read automatically",
		Action:  "Copy the text from the document and paste it instead",
		Code:    "FILE011",
	},
	ReasonReadOrParseError: {
		Message: "The file could not be read",
		Action:  "Check that the file is plain text and try again",
		Code:    "FILE012",
	},
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the generic ERR000 message is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// MapReason returns the user message for an unparsed-file reason code.
func MapReason(reason ReasonCode) UserMessage {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
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

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
