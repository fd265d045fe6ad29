package freescout

import "fmt"

// ErrorKind classifies upstream failures so callers can decide between
// remediation hints without string-matching messages.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindBadRequest
	KindAuth
	KindNotFound
	KindRateLimit
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is a non-2xx response from the FreeScout API.
type APIError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("freescout api error %d (%s): %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("freescout api error %d (%s)", e.StatusCode, e.Kind)
}

func classify(statusCode int) ErrorKind {
	switch {
	case statusCode == 401 || statusCode == 403:
		return KindAuth
	case statusCode == 404:
		return KindNotFound
	case statusCode == 429:
		return KindRateLimit
	case statusCode >= 500:
		return KindServer
	case statusCode >= 400:
		return KindBadRequest
	default:
		return KindUnknown
	}
}
