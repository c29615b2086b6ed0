package eventbus

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe("fir.ingested")

	bus.Publish("fir.ingested", "payload-1")

	select {
	case evt := <-ch:
		if evt.Topic != "fir.ingested" || evt.Payload != "payload-1" {
			t.Errorf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_TopicIsolation(t *testing.T) {
	bus := New()
	ch := bus.Subscribe("topic-a")

	bus.Publish("topic-b", "for b only")

	select {
	case evt := <-ch:
		t.Errorf("received event from wrong topic: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe("t")
	ch2 := bus.Subscribe("t")

	bus.Publish("t", 42)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Payload != 42 {
				t.Errorf("subscriber %d: payload %v", i, evt.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: event not delivered", i)
		}
	}
}

func TestBus_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := New()
	bus.Subscribe("t") // never consumed

	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultBufferSize+10; i++ {
			bus.Publish("t", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on full buffer")
	}
}
