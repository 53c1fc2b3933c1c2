package shortcut

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

// TestActorMetadata checks that an outgoing actor is readable on the incoming side.
func TestActorMetadata(t *testing.T) {
	t.Parallel()

	require.Equal(t, unknownActor, ActorFromContext(context.Background()))

	ctx := context.Background()
	require.Equal(t, ctx, WithActor(ctx, ""))

	out, ok := metadata.FromOutgoingContext(WithActor(ctx, "o.shokin@desk"))
	require.True(t, ok)

	in := metadata.NewIncomingContext(ctx, out)
	require.Equal(t, "o.shokin@desk", ActorFromContext(in))
}

// TestLoggingInterceptor passes responses and errors through untouched.
func TestLoggingInterceptor(t *testing.T) {
	t.Parallel()

	var (
		interceptor = LoggingInterceptor()
		info        = &grpc.UnaryServerInfo{FullMethod: MethodAddLap}
	)

	resp, err := interceptor(context.Background(), new(emptypb.Empty), info,
		func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), new(emptypb.Empty), info,
		func(context.Context, any) (any, error) { return nil, errTestLap })
	require.ErrorIs(t, err, errTestLap)
}
