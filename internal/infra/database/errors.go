package database

import "fmt"

// Sentinel errors returned by the repositories when a point update targets a
// row that no longer exists.
var (
	ErrSessionNotFound    = fmt.Errorf("session not found")
	ErrRecordingNotFound  = fmt.Errorf("recording not found")
	ErrAssignmentNotFound = fmt.Errorf("assignment not found")
	ErrPaymentNotFound    = fmt.Errorf("payment not found")
	ErrLeadNotFound       = fmt.Errorf("lead not found")
)
