package domain

import "fmt"

// ConfigError means the service has no platform token configured.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// AuthError means the login exchange with the platform was rejected.
type AuthError struct {
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token/login failed: %s: %v", e.Detail, e.Err)
	}
	return "token/login failed: " + e.Detail
}

func (e *AuthError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the platform.
type HTTPError struct {
	Service string
	Status  int
	Body    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.Status, e.Service, e.Body)
}

// ServiceError is a well-formed error envelope returned by the platform.
type ServiceError struct {
	Service string
	Code    int
	Reason  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("error %d in %s", e.Code, e.Service)
}
