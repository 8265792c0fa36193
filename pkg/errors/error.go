package errors

import (
	"bytes"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// ErrOrderZeroVolume represents an order submitted with zero or negative volume.
	ErrOrderZeroVolume ErrorCode = "order_zero_volume"
	// ErrOrderMissingLimitPrice represents a limit order submitted without a price.
	ErrOrderMissingLimitPrice ErrorCode = "order_missing_limit_price"
	// ErrOrderUnknownSide represents an order with an unrecognized side.
	ErrOrderUnknownSide ErrorCode = "order_unknown_side"
	// ErrOrderUnknownType represents an order with an unrecognized type.
	ErrOrderUnknownType ErrorCode = "order_unknown_type"
	// ErrUnknownCurrencyPair represents a request for a pair the exchange does not trade.
	ErrUnknownCurrencyPair ErrorCode = "unknown_currency_pair"

	// ErrPipelineNotStarted represents a publish against a pipeline that is not running.
	ErrPipelineNotStarted ErrorCode = "pipeline_not_started"
	// ErrPipelineStopped represents a publish against a pipeline that has been stopped.
	ErrPipelineStopped ErrorCode = "pipeline_stopped"

	// ErrJournalStore represents a failure appending an event to the journal.
	ErrJournalStore ErrorCode = "journal_store_error"
	// ErrJournalQuery represents a failure reading events back from the journal.
	ErrJournalQuery ErrorCode = "journal_query_error"
	// ErrJournalEventNotFound represents a lookup for an event id that was never journaled.
	ErrJournalEventNotFound ErrorCode = "journal_event_not_found"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"

	// KafkaReadError represents an error reading from the order topic.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaPublishError represents an error publishing to the event topic.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)

// Severity represents the severity level of an error.
type Severity string

const (
	// SeverityCritical indicates a critical error that requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates a high severity error that should be addressed promptly.
	SeverityHigh Severity = "high"
	// SeverityMedium indicates a medium severity error that should be addressed in due course.
	SeverityMedium Severity = "medium"
	// SeverityLow indicates a low severity error that can be addressed at a later time.
	SeverityLow Severity = "low"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryDatabase indicates an error related to database operations.
	CategoryDatabase Category = "database"
	// CategoryNetwork indicates an error related to network operations.
	CategoryNetwork Category = "network"
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryBusinessLogic indicates an error related to business logic processing.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryUnknown indicates an unknown error category.
	CategoryUnknown Category = "unknown"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// This error provides basic functions for performing transformations
// on a list of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(string(err.Code))
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}
