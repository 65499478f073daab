package transport

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"pendu/internal/protocol"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherBuffersUntilHandlerRegistered(t *testing.T) {
	d := newDispatcher(testLogger())

	d.deliver(protocol.NewGuess('A'), "p1")
	d.deliver(protocol.NewGuess('B'), "p1")
	d.deliver(protocol.NewRestart(), "p2")

	var got []string
	d.setMessageHandler(func(msg *protocol.Message, fromID string) {
		got = append(got, fmt.Sprintf("%s/%s", msg.Type, fromID))
	})

	want := []string{"guess/p1", "guess/p1", "restart/p2"}
	if len(got) != len(want) {
		t.Fatalf("expected %d flushed messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flush order broken at %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatcherDeliversDirectlyOnceRegistered(t *testing.T) {
	d := newDispatcher(testLogger())

	count := 0
	d.setMessageHandler(func(msg *protocol.Message, fromID string) { count++ })

	d.deliver(protocol.NewGuess('A'), "p1")
	if count != 1 {
		t.Fatalf("expected direct delivery, got %d calls", count)
	}
}

func TestDispatcherDropsNewestOnOverflow(t *testing.T) {
	d := newDispatcher(testLogger())

	for i := 0; i < pendingBufferSize+10; i++ {
		letter := rune('A' + i%26)
		d.deliver(protocol.NewGuess(letter), "p1")
	}

	var letters []string
	d.setMessageHandler(func(msg *protocol.Message, fromID string) {
		letters = append(letters, msg.Payload.(*protocol.GuessPayload).Letter)
	})

	if len(letters) != pendingBufferSize {
		t.Fatalf("expected %d buffered messages, got %d", pendingBufferSize, len(letters))
	}
	// Oldest survive: the first buffered message is still first out
	if letters[0] != "A" {
		t.Fatalf("oldest message should be kept, got %q first", letters[0])
	}
}

func TestDispatcherReplacesHandler(t *testing.T) {
	d := newDispatcher(testLogger())

	first, second := 0, 0
	d.setMessageHandler(func(msg *protocol.Message, fromID string) { first++ })
	d.setMessageHandler(func(msg *protocol.Message, fromID string) { second++ })

	d.deliver(protocol.NewRestart(), "p1")
	if first != 0 || second != 1 {
		t.Fatalf("replaced handler should receive nothing, got first=%d second=%d", first, second)
	}
}

func TestDispatcherDisconnectNotification(t *testing.T) {
	d := newDispatcher(testLogger())

	// No handler registered: notification is silently dropped
	d.notifyDisconnect("p1")

	var gone []string
	d.setDisconnectHandler(func(peerID string) { gone = append(gone, peerID) })
	d.notifyDisconnect("p2")

	if len(gone) != 1 || gone[0] != "p2" {
		t.Fatalf("expected [p2], got %v", gone)
	}
}
