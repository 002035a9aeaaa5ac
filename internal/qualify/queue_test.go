package qualify

import (
	"context"
	"testing"
	"time"
)

func TestMemoryQueue_SendReceive(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	if err := q.Send(ctx, `{"lead_id":"a"}`); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := q.Send(ctx, `{"lead_id":"b"}`); err != nil {
		t.Fatalf("send: %v", err)
	}

	messages, err := q.Receive(ctx, 10, 1)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Body != `{"lead_id":"a"}` {
		t.Errorf("unexpected first body %q", messages[0].Body)
	}
	if messages[0].ID == "" || messages[0].ReceiptHandle == "" {
		t.Error("messages need ids and receipt handles")
	}

	if err := q.Delete(ctx, messages[0].ReceiptHandle); err != nil {
		t.Errorf("delete should be a no-op, got %v", err)
	}
}

func TestMemoryQueue_ReceiveMaxMessages(t *testing.T) {
	q := NewMemoryQueue(8)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := q.Send(ctx, "x"); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	messages, err := q.Receive(ctx, 3, 1)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(messages) != 3 {
		t.Errorf("expected 3 messages, got %d", len(messages))
	}
}

func TestMemoryQueue_ReceiveTimesOutEmpty(t *testing.T) {
	q := NewMemoryQueue(1)

	start := time.Now()
	messages, err := q.Receive(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if messages != nil {
		t.Errorf("expected no messages, got %d", len(messages))
	}
	if time.Since(start) < time.Second {
		t.Error("receive should wait the full poll window")
	}
}

func TestMemoryQueue_ReceiveHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Receive(ctx, 1, 10)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("canceled receive should return the context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receive did not observe cancellation")
	}
}
