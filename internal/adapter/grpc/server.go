package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/portfolio-backend/internal/adapter/auth"
	"github.com/simaogato/portfolio-backend/internal/adapter/dto"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/simaogato/portfolio-backend/internal/usecase/calculator"
	"github.com/simaogato/portfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/portfolio-backend/pkg/logger"
)

// Server implements PortfolioServiceServer
type Server struct {
	portfolioService *portfolio.PortfolioService
}

// NewServer creates a new gRPC server adapter
func NewServer(portfolioService *portfolio.PortfolioService) *Server {
	return &Server{portfolioService: portfolioService}
}

// NewGRPCServer builds a gRPC server exposing the portfolio service, the
// standard health service and reflection. Portfolio calls require a bearer token.
func NewGRPCServer(portfolioService *portfolio.PortfolioService, verifier *auth.Verifier, log *logger.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log), RecoveryInterceptor(log), AuthInterceptor(verifier)),
	)

	RegisterPortfolioServiceServer(grpcServer, NewServer(portfolioService))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	return grpcServer
}

// ListAssets handles the ListAssets RPC. Request: {"symbol": optional}. Response: {"assets": [...]}
func (s *Server) ListAssets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var assets []*domain.Asset
	if symbol := stringField(req, "symbol"); symbol != "" {
		assets, err = s.portfolioService.ListAssetsBySymbol(ctx, ownerID, symbol)
	} else {
		assets, err = s.portfolioService.ListAssets(ctx, ownerID)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{"assets": dto.NewAssetListResponse(assets)})
}

// GetAsset handles the GetAsset RPC. Request: {"id": uuid}
func (s *Server) GetAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	assetID, err := uuid.Parse(stringField(req, "id"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	asset, err := s.portfolioService.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dto.NewAssetResponse(asset))
}

// GetSummary handles the GetSummary RPC
func (s *Server) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.portfolioService.GetPortfolioSummary(ctx, ownerID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dto.NewSummaryResponse(summary))
}

// GetPerformance handles the GetPerformance RPC. Request: {"metric": "roi"|"gain"|"annualized"}
func (s *Server) GetPerformance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	service := s.portfolioService
	if metric := stringField(req, "metric"); metric != "" {
		calc, err := calculator.ByName(metric, service.Now)
		if err != nil {
			return nil, mapError(err)
		}
		service = service.WithCalculator(calc)
	}

	performance, err := service.GetPortfolioPerformance(ctx, ownerID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dto.NewPerformanceResponse(service.Calculator.Name(), performance))
}

// GetAllocation handles the GetAllocation RPC
func (s *Server) GetAllocation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	allocation, err := s.portfolioService.GetAllocation(ctx, ownerID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dto.NewAllocationResponse(allocation))
}

// Helper functions

func ownerFrom(ctx context.Context) (uuid.UUID, error) {
	ownerID, ok := auth.OwnerFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing owner")
	}
	return ownerID, nil
}

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[key].GetStringValue()
}

// toStruct converts a response shape into a Struct through its JSON form
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrInvalidType), errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, "internal error")
}
