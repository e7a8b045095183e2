package listing

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
)

// NewServer creates a gRPC server with ListingService, the standard health
// service and reflection (for grpcurl and debugging). The health status
// starts SERVING; callers flip it during shutdown. Panics in handlers are
// recovered and logged.
func NewServer(engine contracts.ListingEngine, logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLogger(logger), UnaryRecovery(logger))}, opts...)
	srv := grpc.NewServer(opts...)

	RegisterListingServiceServer(srv, NewHandler(engine, logger))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	reflection.Register(srv)
	return srv, healthSrv
}
