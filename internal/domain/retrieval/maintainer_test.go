package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/adityabhaskar/nyaya/internal/infra/eventbus"
)

func TestMaintainer_IndexesPublishedRecords(t *testing.T) {
	svc := newTestService(t, newStubProvider(), &fakeSource{})
	bus := eventbus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewMaintainer(svc, bus).Start(ctx, "fir.ingested")

	bus.Publish("fir.ingested", testCaseItems()[0])

	deadline := time.Now().Add(2 * time.Second)
	for svc.caseIndex.Load().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("record not indexed before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if svc.caseIndex.Load().LookupByID("FIR-001") == nil {
		t.Error("indexed snapshot missing FIR-001")
	}
}

func TestMaintainer_IgnoresForeignPayloads(t *testing.T) {
	svc := newTestService(t, newStubProvider(), &fakeSource{})
	bus := eventbus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewMaintainer(svc, bus).Start(ctx, "fir.ingested")

	bus.Publish("fir.ingested", "not a corpus item")
	bus.Publish("fir.ingested", testCaseItems()[1])

	deadline := time.Now().Add(2 * time.Second)
	for svc.caseIndex.Load().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("valid record not indexed before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if svc.caseIndex.Load().Len() != 1 {
		t.Errorf("expected exactly 1 indexed record, got %d", svc.caseIndex.Load().Len())
	}
}
