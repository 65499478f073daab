package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SignalingClient talks to the signaling relay. The relay's whole contract
// is "resolve peer A's network address given identifier X"; once a direct
// channel is established it plays no further part.
type SignalingClient struct {
	baseURL string
	client  *http.Client
}

// NewSignalingClient creates a client for the relay at baseURL
func NewSignalingClient(baseURL string) *SignalingClient {
	return &SignalingClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type registerRequest struct {
	Address string `json:"address"`
}

type roomResponse struct {
	Code    string `json:"code"`
	Address string `json:"address"`
}

// Register makes the given channel address discoverable and returns the
// room code under which remote peers can resolve it
func (c *SignalingClient) Register(ctx context.Context, address string) (string, error) {
	body, err := json.Marshal(registerRequest{Address: address})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: relay returned %s", ErrSignaling, resp.Status)
	}

	var room roomResponse
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}
	return room.Code, nil
}

// Resolve returns the channel address registered under the room code
func (c *SignalingClient) Resolve(ctx context.Context, code string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rooms/"+code, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: no room %q", ErrPeerUnreachable, code)
	default:
		return "", fmt.Errorf("%w: relay returned %s", ErrSignaling, resp.Status)
	}

	var room roomResponse
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignaling, err)
	}
	return room.Address, nil
}

// Unregister removes the room code from the relay, best-effort
func (c *SignalingClient) Unregister(ctx context.Context, code string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/rooms/"+code, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignaling, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignaling, err)
	}
	resp.Body.Close()
	return nil
}
