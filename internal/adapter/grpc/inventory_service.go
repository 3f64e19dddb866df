package grpc

import (
	"context"

	"go.uber.org/zap"

	pb "commerce-service/api/gen/go/inventory"
	"commerce-service/internal/usecase/inventory"
	apperrors "commerce-service/pkg/errors"
)

const (
	defaultReserveReason = "gRPC reservation"
	defaultReleaseReason = "gRPC release"
)

// InventoryServer implements pb.InventoryServiceServer over the inventory usecase.
type InventoryServer struct {
	pb.UnimplementedInventoryServiceServer
	uc  inventory.Usecase
	log *zap.Logger
}

// NewInventoryServer creates a new gRPC inventory service server
func NewInventoryServer(uc inventory.Usecase, log *zap.Logger) *InventoryServer {
	return &InventoryServer{uc: uc, log: log}
}

// GetStock handles gRPC GetStock request
func (s *InventoryServer) GetStock(ctx context.Context, req *pb.GetStockRequest) (*pb.StockReply, error) {
	level, err := s.uc.GetStock(ctx, req.GetProductId())
	if err != nil {
		return nil, s.toStatus("GetStock", err)
	}
	return toReply(level), nil
}

// ReserveStock handles gRPC ReserveStock request
func (s *InventoryServer) ReserveStock(ctx context.Context, req *pb.StockRequest) (*pb.StockReply, error) {
	if req.GetQuantity() <= 0 {
		return nil, apperrors.ToGRPC(apperrors.NewValidationError("quantity", "must be positive"))
	}
	reason := req.GetReason()
	if reason == "" {
		reason = defaultReserveReason
	}

	level, err := s.uc.Reserve(ctx, req.GetProductId(), int(req.GetQuantity()), reason)
	if err != nil {
		return nil, s.toStatus("ReserveStock", err)
	}
	return toReply(level), nil
}

// ReleaseStock handles gRPC ReleaseStock request
func (s *InventoryServer) ReleaseStock(ctx context.Context, req *pb.StockRequest) (*pb.ReleaseStockReply, error) {
	if req.GetQuantity() <= 0 {
		return nil, apperrors.ToGRPC(apperrors.NewValidationError("quantity", "must be positive"))
	}
	reason := req.GetReason()
	if reason == "" {
		reason = defaultReleaseReason
	}

	if err := s.uc.Release(ctx, req.GetProductId(), int(req.GetQuantity()), reason); err != nil {
		return nil, s.toStatus("ReleaseStock", err)
	}
	return &pb.ReleaseStockReply{}, nil
}

// ListLowStock handles gRPC ListLowStock request
func (s *InventoryServer) ListLowStock(ctx context.Context, _ *pb.ListLowStockRequest) (*pb.ListLowStockReply, error) {
	products, err := s.uc.LowStock(ctx)
	if err != nil {
		return nil, s.toStatus("ListLowStock", err)
	}

	reply := &pb.ListLowStockReply{Products: make([]*pb.StockReply, len(products))}
	for i, p := range products {
		reply.Products[i] = &pb.StockReply{
			ProductId:     p.ID,
			ProductName:   p.Name,
			Sku:           p.SKU,
			StockQuantity: int32(p.StockQuantity),
			LowStock:      true,
		}
	}
	return reply, nil
}

func (s *InventoryServer) toStatus(method string, err error) error {
	if !apperrors.IsClientError(err) {
		s.log.Error("inventory rpc failed", zap.String("method", method), zap.Error(err))
	}
	return apperrors.ToGRPC(err)
}

func toReply(l *inventory.StockLevel) *pb.StockReply {
	return &pb.StockReply{
		ProductId:     l.ProductID,
		ProductName:   l.ProductName,
		Sku:           l.SKU,
		StockQuantity: int32(l.StockQuantity),
		LowStock:      l.LowStock,
	}
}
