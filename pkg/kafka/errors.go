package kafka

import (
	"errors"
	"strings"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

// ErrorType classifies failures for retry decisions.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypePermanent
)

// PublishError carries classification alongside the underlying error so
// consumers can decide between retry and DLQ.
type PublishError struct {
	Type ErrorType
	Msg  string
	Err  error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *PublishError) Unwrap() error { return e.Err }

func NewTransientError(msg string, err error) *PublishError {
	return &PublishError{Type: ErrorTypeTransient, Msg: msg, Err: err}
}

func NewPermanentError(msg string, err error) *PublishError {
	return &PublishError{Type: ErrorTypePermanent, Msg: msg, Err: err}
}

var transientPatterns = []string{
	"connection refused",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"connection reset",
	"i/o timeout",
	"temporary failure",
}

// ClassifyError decides whether an error is worth retrying. Unclassifiable
// errors are treated as permanent so poison messages reach the DLQ instead
// of spinning forever.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var pubErr *PublishError
	if errors.As(err, &pubErr) {
		return pubErr.Type
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeTransient
		}
	}

	return ErrorTypePermanent
}

func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	if err == nil || currentRetries >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
