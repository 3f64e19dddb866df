package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"commerce-service/cmd/api/di"
	"commerce-service/internal/adapter/messaging/rabbitmq"
	"commerce-service/internal/config"
	"commerce-service/internal/scheduler"
)

const (
	sweepJob     = "low-stock-sweep"
	sweepTimeout = 2 * time.Minute
)

// Server owns every long-running component: the REST API, the internal gRPC
// service and its REST gateway, the event consumers and the scheduler.
type Server struct {
	Config    *config.Config
	Logger    *zap.Logger
	GRPC      *grpc.Server
	HTTP      *http.Server
	Gin       *http.Server
	Scheduler *scheduler.Scheduler

	consumer  *rabbitmq.Consumer
	listeners rabbitmq.Listeners
	cancel    context.CancelFunc
}

// New creates a new server instance
func New(c *di.Container) (*Server, error) {
	cfg := c.Config

	sched := scheduler.New(c.Logger)
	err := sched.Add(sweepJob, cfg.Inventory.SweepCron, sweepTimeout, func(ctx context.Context) error {
		_, err := c.InventoryUC.SweepLowStock(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	gateway, err := SetupHTTPGateway(context.Background(), "localhost:"+cfg.App.GRPCPort, ":"+cfg.App.GRPCGatewayPort, c.Logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		Config:    cfg,
		Logger:    c.Logger,
		GRPC:      SetupGRPC(c.InventoryUC, c.Logger, c.GRPCRateLimiter),
		HTTP:      gateway,
		Gin:       SetupGinServer(c.Router, ":"+cfg.App.HTTPPort, c.Logger),
		Scheduler: sched,
		consumer:  c.Consumer,
		listeners: c.NotificationUC,
	}, nil
}

// Start runs every component and blocks until one of them fails or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(s.startGRPC)
	g.Go(s.startGateway)
	g.Go(s.startGin)

	if s.consumer != nil {
		g.Go(func() error {
			s.Logger.Info("event consumers running")
			if err := s.consumer.Run(ctx, rabbitmq.Subscriptions(s.listeners)...); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("consumer: %w", err)
			}
			return nil
		})
	}

	s.Scheduler.Start()

	return g.Wait()
}

// Stop cancels the consumers. Servers are shut down separately by the caller.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Server) startGRPC() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.grpcAddress())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("gRPC server running", zap.String("address", s.grpcAddress()))
	if err := s.GRPC.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server: %w", err)
	}
	return nil
}

func (s *Server) startGateway() error {
	s.Logger.Info("REST gateway running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("REST gateway: %w", err)
	}
	return nil
}

func (s *Server) startGin() error {
	s.Logger.Info("REST API running", zap.String("address", s.Gin.Addr))
	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("REST API: %w", err)
	}
	return nil
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}
