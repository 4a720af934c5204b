package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/tolvstad/ordersync/internal/orders/domain"
)

// envelope is the notification wrapper the pub/sub fan-out stores in the
// queue. Only the Message field matters; everything else is ignored.
type envelope struct {
	Message *string `json:"Message"`
}

// DecodeEnvelope performs the two-stage parse of an inbound queue message:
// outer wrapper first, then the JSON-encoded order held in its Message field.
func DecodeEnvelope(raw []byte) (domain.Order, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.Message == nil {
		return domain.Order{}, fmt.Errorf("%w: missing Message field", ErrMalformedEnvelope)
	}
	return decodeOrder([]byte(*env.Message))
}

func decodeOrder(raw []byte) (domain.Order, error) {
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	if err := order.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	return order, nil
}
