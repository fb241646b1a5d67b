package simulation

import (
	"context"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/events"
	"github.com/unipay/unipay-api/service/models"
)

// EventSink records terminal transactions by emitting them onto the
// transaction save event, which owns persistence and ledger publication.
type EventSink struct {
	Service *frame.Service
}

func (s *EventSink) Record(ctx context.Context, transaction *models.Transaction) error {
	event := events.TransactionSave{}
	return s.Service.Emit(ctx, event.Name(), transaction)
}
