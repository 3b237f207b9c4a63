package utils

import "time"

// APIResponse is the envelope every gateway JSON response uses. Data carries
// the payload on success; Detail carries the underlying error text when a
// request fails, so operators see why an upstream call was rejected.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorResponse(message, detail string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}
