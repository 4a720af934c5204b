package pipeline

import "errors"

// Pipeline failures collapse the messaging and storage SDK error hierarchies
// into a small taxonomy; callers distinguish by kind with errors.Is.
var (
	// ErrMalformedEnvelope indicates the outer notification wrapper could not
	// be parsed or its Message field is absent.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrMalformedOrder indicates the inner payload is not a valid order.
	ErrMalformedOrder = errors.New("malformed order")

	// ErrStoreUnavailable indicates the order store rejected a write.
	ErrStoreUnavailable = errors.New("order store unavailable")

	// ErrSerialization indicates the order could not be encoded for publishing.
	ErrSerialization = errors.New("order serialization failed")

	// ErrQueueUnavailable indicates the inbound queue could not be polled.
	ErrQueueUnavailable = errors.New("inbound queue unavailable")

	// ErrPublishFailure indicates at least one of the two outbound channels
	// rejected the event.
	ErrPublishFailure = errors.New("event publish failed")
)
