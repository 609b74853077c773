package grpc

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"liyu1981.xyz/poultry-house-service/pkg/common"
)

// CreateRateLimitInterceptor limits the listed request types per requested
// service name.
func (h *HealthServer) CreateRateLimitInterceptor(targetReqTypes []proto.Message) grpc.UnaryServerInterceptor {
	targetTypeMap := common.Reducer(targetReqTypes,
		func(m map[reflect.Type]bool, t proto.Message) map[reflect.Type]bool {
			m[reflect.TypeOf(t)] = true
			return m
		},
		map[reflect.Type]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetTypeMap[reflect.TypeOf(req)]; ok {
			if r, ok := req.(interface{ GetService() string }); ok {
				service := r.GetService()
				if !h.CheckServiceLimiter(service) {
					common.GetLoggerWith(common.LoggerNameGrpcServer, zap.String(common.LoggerFieldIOTCategory, "limiter")).
						Warn("Rate limit exceeded", zap.String("method", info.FullMethod), zap.String("service", service))
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}
