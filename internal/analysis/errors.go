package analysis

import "fmt"

// TransportError means the request could not be sent or no response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means a response arrived but reported a failure or could not
// be understood.
type ServiceError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service (%s): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("bad status: %s", e.Status)
}

func (e *ServiceError) Unwrap() error { return e.Err }
