package shortcut

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "deskclock.shortcuts.v1.ShortcutService"

// Full method names used by clients.
const (
	MethodGetStopwatch    = "/" + ServiceName + "/GetStopwatch"
	MethodStartStopwatch  = "/" + ServiceName + "/StartStopwatch"
	MethodPauseStopwatch  = "/" + ServiceName + "/PauseStopwatch"
	MethodResetStopwatch  = "/" + ServiceName + "/ResetStopwatch"
	MethodAddLap          = "/" + ServiceName + "/AddLap"
	MethodListShortcuts   = "/" + ServiceName + "/ListShortcuts"
	MethodResyncShortcuts = "/" + ServiceName + "/ResyncShortcuts"
)

// ShortcutServiceServer is the server API of the shortcut service.
type ShortcutServiceServer interface {
	GetStopwatch(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	StartStopwatch(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	PauseStopwatch(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ResetStopwatch(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	AddLap(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ListShortcuts(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ResyncShortcuts(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// unaryCall invokes one method of a ShortcutServiceServer.
type unaryCall func(srv ShortcutServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)

// ServiceDesc describes the shortcut service for grpc.Server registration.
//
//nolint:gochecknoglobals // grpc.ServiceDesc values are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortcutServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("GetStopwatch", ShortcutServiceServer.GetStopwatch),
		method("StartStopwatch", ShortcutServiceServer.StartStopwatch),
		method("PauseStopwatch", ShortcutServiceServer.PauseStopwatch),
		method("ResetStopwatch", ShortcutServiceServer.ResetStopwatch),
		method("AddLap", ShortcutServiceServer.AddLap),
		method("ListShortcuts", ShortcutServiceServer.ListShortcuts),
		method("ResyncShortcuts", ShortcutServiceServer.ResyncShortcuts),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "deskclock/shortcuts/v1/shortcut.proto",
}

// RegisterShortcutServiceServer registers srv on registrar.
func RegisterShortcutServiceServer(registrar grpc.ServiceRegistrar, srv ShortcutServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// method builds the descriptor of a unary method, honoring interceptors.
func method(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(
			srv any,
			ctx context.Context,
			dec func(any) error,
			interceptor grpc.UnaryServerInterceptor,
		) (any, error) {
			in := new(emptypb.Empty)
			if err := dec(in); err != nil {
				return nil, err
			}

			server, _ := srv.(ShortcutServiceServer) //nolint:errcheck // HandlerType guarantees the type.

			if interceptor == nil {
				return call(server, ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}

			handler := func(ctx context.Context, req any) (any, error) {
				empty, _ := req.(*emptypb.Empty) //nolint:errcheck // The decoder produced this value.

				return call(server, ctx, empty)
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}
