package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "commerce-service/api/gen/go/inventory"
)

// SetupHTTPGateway exposes the inventory RPCs as REST under /v1/inventory.
// Calls are proxied through grpcAddr so the gRPC interceptors still apply.
func SetupHTTPGateway(ctx context.Context, grpcAddr string, httpAddr string, l *zap.Logger) (*http.Server, error) {
	mux := runtime.NewServeMux()
	err := pb.RegisterInventoryServiceHandlerFromEndpoint(
		ctx,
		mux,
		grpcAddr,
		[]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register gateway: %w", err)
	}

	l.Info("REST gateway configured", zap.String("address", httpAddr), zap.String("upstream", grpcAddr))

	return &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
	}, nil
}
