package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"

	pb "commerce-service/api/gen/go/inventory"
)

type fixedStockServer struct {
	pb.UnimplementedInventoryServiceServer
}

func (fixedStockServer) GetStock(_ context.Context, req *pb.GetStockRequest) (*pb.StockReply, error) {
	return &pb.StockReply{ProductId: req.GetProductId(), Sku: "KB-001", StockQuantity: 12}, nil
}

func TestSetupHTTPGateway(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	pb.RegisterInventoryServiceServer(srv, fixedStockServer{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	gw, err := SetupHTTPGateway(ctx, lis.Addr().String(), ":0", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, ":0", gw.Addr)

	t.Run("Proxies To gRPC", func(t *testing.T) {
		w := httptest.NewRecorder()
		gw.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/inventory/products/3/stock", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "3", body["productId"])
		assert.Equal(t, "KB-001", body["sku"])
		assert.Equal(t, float64(12), body["stockQuantity"])
	})

	t.Run("Unimplemented Method", func(t *testing.T) {
		w := httptest.NewRecorder()
		gw.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/inventory/low-stock", nil))

		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		w := httptest.NewRecorder()
		gw.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/inventory/unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
