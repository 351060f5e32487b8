// Package services provides the business logic layer between the binaries
// and the analytics engines. Services validate incoming documents, apply
// configured defaults, run the engines, and dispatch results.
package services

// Service error codes. Callers branch on the code, never on message
// text; the strings below are part of the serialized envelope and must
// not change.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnsupportedMethod = "UNSUPPORTED_METHOD"
	CodeForecastFailed    = "FORECAST_FAILED"
	CodeLimitExceeded     = "LIMIT_EXCEEDED"
	CodeEvaluationFailed  = "EVALUATION_FAILED"
	CodePublishFailed     = "PUBLISH_FAILED"
)

// ServiceError is the failure envelope for every service operation.
// Details carries structured context for the caller, such as the
// offending value or the set of available alternatives.
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error returns the human-facing message; the code travels in the
// serialized envelope.
func (e *ServiceError) Error() string {
	return e.Message
}
