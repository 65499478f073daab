package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pendu/internal/protocol"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestMemoryNetworkStarRoundTrip(t *testing.T) {
	network := NewMemoryNetwork()
	host := network.NewPeer(testLogger())
	guest := network.NewPeer(testLogger())

	code, err := host.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	if host.Status() != StatusConnected {
		t.Fatal("host should be connected after creating a room")
	}

	var mu sync.Mutex
	var hostGot []string
	var hostFrom string
	host.OnMessage(func(msg *protocol.Message, fromID string) {
		mu.Lock()
		defer mu.Unlock()
		hostGot = append(hostGot, string(msg.Type))
		hostFrom = fromID
	})

	var guestGot []string
	guest.OnMessage(func(msg *protocol.Message, fromID string) {
		mu.Lock()
		defer mu.Unlock()
		guestGot = append(guestGot, string(msg.Type))
	})

	if err := guest.JoinRoom(context.Background(), code); err != nil {
		t.Fatalf("join room failed: %v", err)
	}

	guest.Send(protocol.NewPlayerJoin(guest.LocalID(), "Anne"))
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(hostGot) == 1
	}, "host to receive player_join")

	mu.Lock()
	if hostGot[0] != "player_join" {
		t.Fatalf("expected player_join, got %s", hostGot[0])
	}
	if hostFrom != guest.LocalID() {
		t.Fatalf("expected sender %s, got %s", guest.LocalID(), hostFrom)
	}
	mu.Unlock()

	host.Send(protocol.NewRestart())
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(guestGot) == 1
	}, "guest to receive restart")
}

func TestMemoryNetworkPreservesPerChannelOrder(t *testing.T) {
	network := NewMemoryNetwork()
	host := network.NewPeer(testLogger())
	guest := network.NewPeer(testLogger())

	code, _ := host.CreateRoom(context.Background())

	var mu sync.Mutex
	var letters []string
	guest.OnMessage(func(msg *protocol.Message, fromID string) {
		if p, ok := msg.Payload.(*protocol.GuessPayload); ok {
			mu.Lock()
			letters = append(letters, p.Letter)
			mu.Unlock()
		}
	})

	if err := guest.JoinRoom(context.Background(), code); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	sent := "ABCDEFGHIJ"
	for _, l := range sent {
		host.Send(protocol.NewGuess(l))
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(letters) == len(sent)
	}, "all guesses to arrive")

	mu.Lock()
	defer mu.Unlock()
	for i, l := range sent {
		if letters[i] != string(l) {
			t.Fatalf("order broken at %d: got %q, want %q", i, letters[i], string(l))
		}
	}
}

func TestMemoryNetworkJoinUnknownRoom(t *testing.T) {
	network := NewMemoryNetwork()
	guest := network.NewPeer(testLogger())

	err := guest.JoinRoom(context.Background(), "NOROOM")
	if !errors.Is(err, ErrPeerUnreachable) {
		t.Fatalf("expected ErrPeerUnreachable, got %v", err)
	}
}

func TestMemoryNetworkCloseNotifiesRemote(t *testing.T) {
	network := NewMemoryNetwork()
	host := network.NewPeer(testLogger())
	guest := network.NewPeer(testLogger())

	code, _ := host.CreateRoom(context.Background())

	var mu sync.Mutex
	var gone []string
	host.OnDisconnect(func(peerID string) {
		mu.Lock()
		gone = append(gone, peerID)
		mu.Unlock()
	})

	if err := guest.JoinRoom(context.Background(), code); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	guestID := guest.LocalID()

	guest.Close()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(gone) == 1
	}, "host to observe the disconnect")

	mu.Lock()
	if gone[0] != guestID {
		t.Fatalf("expected %s, got %s", guestID, gone[0])
	}
	mu.Unlock()

	// Losing the only channel drops the host back to disconnected
	if host.Status() != StatusDisconnected {
		t.Fatalf("expected disconnected, got %v", host.Status())
	}
	if guest.Status() != StatusDisconnected {
		t.Fatalf("closed guest should be disconnected, got %v", guest.Status())
	}
}

func TestMemoryNetworkRoomGoneAfterHostClose(t *testing.T) {
	network := NewMemoryNetwork()
	host := network.NewPeer(testLogger())

	code, _ := host.CreateRoom(context.Background())
	host.Close()

	guest := network.NewPeer(testLogger())
	if err := guest.JoinRoom(context.Background(), code); !errors.Is(err, ErrPeerUnreachable) {
		t.Fatalf("expected ErrPeerUnreachable after host close, got %v", err)
	}
}
