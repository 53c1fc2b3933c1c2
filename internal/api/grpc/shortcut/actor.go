package shortcut

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/oshokin/deskclock-shortcuts/internal/logger"
)

// ActorMetadataKey carries "user@host" of the calling process.
const ActorMetadataKey = "x-deskclock-actor"

// unknownActor is logged for callers that did not identify themselves.
const unknownActor = "<unknown>"

// WithActor attaches actor to outgoing calls made with ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, actor)
}

// ActorFromContext returns the actor of an incoming call.
func ActorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return unknownActor
	}

	values := md.Get(ActorMetadataKey)
	if len(values) == 0 || values[0] == "" {
		return unknownActor
	}

	return values[0]
}

// LoggingInterceptor names the request logger after the method and actor
// and logs completed calls.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = logger.WithKV(ctx, "method", info.FullMethod, "actor", ActorFromContext(ctx))
		started := time.Now()

		resp, err := handler(ctx, req)
		if err != nil {
			logger.WarnKV(ctx, "Call failed", "error", err, "duration", time.Since(started))

			return resp, err
		}

		logger.DebugKV(ctx, "Call completed", "duration", time.Since(started))

		return resp, nil
	}
}
