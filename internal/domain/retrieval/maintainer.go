package retrieval

import (
	"context"
	"log"

	"github.com/adityabhaskar/nyaya/internal/infra/eventbus"
)

// Maintainer keeps the in-memory case index warm: it listens for newly filed
// records on the event bus and appends their embeddings in the background, so
// the first similarity query after an ingest does not pay the encoding cost.
type Maintainer struct {
	service *Service
	bus     *eventbus.Bus
}

// NewMaintainer wires a maintainer over the retrieval service and bus.
func NewMaintainer(service *Service, bus *eventbus.Bus) *Maintainer {
	return &Maintainer{service: service, bus: bus}
}

// Start subscribes to topic and processes ingest events until ctx is
// cancelled. Events whose payload is not a CorpusItem are dropped; embedding
// failures are logged and skipped, the per-query reconciliation picks the
// record up later.
func (m *Maintainer) Start(ctx context.Context, topic string) {
	events := m.bus.Subscribe(topic)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				item, valid := evt.Payload.(CorpusItem)
				if !valid {
					log.Printf("warn: %s event with payload %T, skipping", topic, evt.Payload)
					continue
				}
				if err := m.service.AppendCaseRecord(ctx, item); err != nil {
					log.Printf("warn: index record %s: %v", item.ID, err)
				}
			}
		}
	}()
}
