package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pworker3/whispers/internal/model"
)

type fakeSender struct {
	sent    []string
	failAt  int // 1-indexed send that fails; 0 = never
	attempt int
}

func (f *fakeSender) Send(n model.Notification) error {
	f.attempt++
	if f.failAt > 0 && f.attempt == f.failAt {
		return errors.New("sink unavailable")
	}
	f.sent = append(f.sent, n.Title)
	return nil
}

func notes(titles ...string) []model.Notification {
	ns := make([]model.Notification, len(titles))
	for i, title := range titles {
		ns[i] = model.Notification{Title: title}
	}
	return ns
}

func TestSendAll_OrderAndCallbacks(t *testing.T) {
	sender := &fakeSender{}
	pacer := NewPacer(sender, time.Millisecond)

	var got []int
	err := pacer.SendAll(context.Background(), notes("a", "b", "c"), func(i int) {
		got = append(got, i)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 3 || sender.sent[0] != "a" || sender.sent[2] != "c" {
		t.Errorf("unexpected send order: %v", sender.sent)
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("unexpected callback indices: %v", got)
	}
}

func TestSendAll_FailureAbortsRemainder(t *testing.T) {
	sender := &fakeSender{failAt: 2}
	pacer := NewPacer(sender, time.Millisecond)

	var sentIdx []int
	err := pacer.SendAll(context.Background(), notes("a", "b", "c"), func(i int) {
		sentIdx = append(sentIdx, i)
	})
	if err == nil {
		t.Fatal("expected error from failing send")
	}
	if len(sentIdx) != 1 || sentIdx[0] != 0 {
		t.Errorf("expected exactly the first item confirmed, got %v", sentIdx)
	}
	if sender.attempt != 2 {
		t.Errorf("expected no attempts after the failure, got %d", sender.attempt)
	}
}

func TestSendAll_NilCallback(t *testing.T) {
	pacer := NewPacer(&fakeSender{}, time.Millisecond)
	if err := pacer.SendAll(context.Background(), notes("a"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSendAll_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	pacer := NewPacer(sender, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	// First send consumes the burst token; the second blocks on pacing until
	// the context is cancelled.
	err := pacer.SendAll(ctx, notes("a", "b"), nil)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected one send before cancellation, got %d", len(sender.sent))
	}
}
