package shortcut

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	GetStopwatch(ctx context.Context) stopwatch.Snapshot
	StartStopwatch(ctx context.Context) stopwatch.Snapshot
	PauseStopwatch(ctx context.Context) stopwatch.Snapshot
	ResetStopwatch(ctx context.Context) stopwatch.Snapshot
	AddLap(ctx context.Context) (stopwatch.Lap, error)
	ListShortcuts(ctx context.Context) Listing
	ResyncShortcuts(ctx context.Context) (Listing, error)
}

// Server implements ShortcutServiceServer on top of a Service.
type Server struct {
	// service provides the business logic.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetStopwatch returns the stopwatch state.
func (s *Server) GetStopwatch(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return SnapshotToProto(s.service.GetStopwatch(ctx)), nil
}

// StartStopwatch starts the stopwatch.
func (s *Server) StartStopwatch(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return SnapshotToProto(s.service.StartStopwatch(ctx)), nil
}

// PauseStopwatch pauses the stopwatch.
func (s *Server) PauseStopwatch(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return SnapshotToProto(s.service.PauseStopwatch(ctx)), nil
}

// ResetStopwatch resets the stopwatch.
func (s *Server) ResetStopwatch(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return SnapshotToProto(s.service.ResetStopwatch(ctx)), nil
}

// AddLap records a lap.
func (s *Server) AddLap(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	lap, err := s.service.AddLap(ctx)
	if err != nil {
		if errors.Is(err, stopwatch.ErrNotStarted) || errors.Is(err, stopwatch.ErrTooManyLaps) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}

		return nil, status.Error(codes.Internal, "unable to add lap")
	}

	return LapToProto(lap), nil
}

// ListShortcuts returns the published shortcut set.
func (s *Server) ListShortcuts(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return ListingToProto(s.service.ListShortcuts(ctx)), nil
}

// ResyncShortcuts republishes the full shortcut set.
func (s *Server) ResyncShortcuts(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	listing, err := s.service.ResyncShortcuts(ctx)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	return ListingToProto(listing), nil
}
