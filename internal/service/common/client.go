//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/deskclock-shortcuts/internal/api/grpc/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/config"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
)

// invoker is the part of a gRPC connection the client needs.
type invoker interface {
	Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error
}

// Client wraps the gRPC ShortcutService with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the deskclock server.
	conn *grpc.ClientConn
	// api issues unary calls; it is conn outside of tests.
	api invoker

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the deskclock server.
// Note: this uses insecure transport credentials; the server is meant to be
// reached over loopback or a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial deskclock server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetStopwatch retrieves the stopwatch state.
func (c *Client) GetStopwatch(ctx context.Context) (stopwatch.Snapshot, error) {
	return c.snapshot(ctx, api.MethodGetStopwatch, "get stopwatch")
}

// StartStopwatch starts the remote stopwatch.
func (c *Client) StartStopwatch(ctx context.Context) (stopwatch.Snapshot, error) {
	return c.snapshot(ctx, api.MethodStartStopwatch, "start stopwatch")
}

// PauseStopwatch pauses the remote stopwatch.
func (c *Client) PauseStopwatch(ctx context.Context) (stopwatch.Snapshot, error) {
	return c.snapshot(ctx, api.MethodPauseStopwatch, "pause stopwatch")
}

// ResetStopwatch resets the remote stopwatch.
func (c *Client) ResetStopwatch(ctx context.Context) (stopwatch.Snapshot, error) {
	return c.snapshot(ctx, api.MethodResetStopwatch, "reset stopwatch")
}

// AddLap records a lap on the remote stopwatch.
func (c *Client) AddLap(ctx context.Context) (stopwatch.Lap, error) {
	resp, err := c.call(ctx, api.MethodAddLap)
	if err != nil {
		return stopwatch.Lap{}, fmt.Errorf("add lap: %w", err)
	}

	return api.LapFromProto(resp), nil
}

// ListShortcuts retrieves the published shortcut set.
func (c *Client) ListShortcuts(ctx context.Context) (api.Listing, error) {
	resp, err := c.call(ctx, api.MethodListShortcuts)
	if err != nil {
		return api.Listing{}, fmt.Errorf("list shortcuts: %w", err)
	}

	return api.ListingFromProto(resp), nil
}

// ResyncShortcuts asks the server to republish the full shortcut set.
func (c *Client) ResyncShortcuts(ctx context.Context) (api.Listing, error) {
	resp, err := c.call(ctx, api.MethodResyncShortcuts)
	if err != nil {
		return api.Listing{}, fmt.Errorf("resync shortcuts: %w", err)
	}

	return api.ListingFromProto(resp), nil
}

func (c *Client) snapshot(ctx context.Context, method, operation string) (stopwatch.Snapshot, error) {
	resp, err := c.call(ctx, method)
	if err != nil {
		return stopwatch.Snapshot{}, fmt.Errorf("%s: %w", operation, err)
	}

	return api.SnapshotFromProto(resp), nil
}

// call issues an argument-less unary RPC bounded by the call timeout.
func (c *Client) call(ctx context.Context, method string) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.api.Invoke(callCtx, method, new(emptypb.Empty), resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
