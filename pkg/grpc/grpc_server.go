package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
)

// ServiceBroker is the health service name that follows the broker session.
const ServiceBroker = "broker"

type IBrokerStatus interface {
	IsConnected() bool
}

// HealthServer is the standard grpc.health.v1 service. The overall status is
// always SERVING; the broker service is SERVING only while the session is up.
type HealthServer struct {
	*health.Server
	Broker           IBrokerStatus
	RateLimiterStore *iot.RateLimiterStore
}

func NewHealthServer(broker IBrokerStatus, limiterStore *iot.RateLimiterStore) *HealthServer {
	h := &HealthServer{
		Server:           health.NewServer(),
		Broker:           broker,
		RateLimiterStore: limiterStore,
	}
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.Refresh()
	return h
}

func (h *HealthServer) GetLimiter(service string) *rate.Limiter {
	if h.RateLimiterStore == nil {
		return nil
	} else {
		return h.RateLimiterStore.GetLimiter(iot.LimiterKey("grpc", service))
	}
}

func (h *HealthServer) CheckServiceLimiter(service string) bool {
	limiter := h.GetLimiter(service)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (h *HealthServer) Refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if h.Broker != nil && h.Broker.IsConnected() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.SetServingStatus(ServiceBroker, status)
}

// Check refreshes the broker status before answering.
func (h *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	h.Refresh()
	return h.Server.Check(ctx, req)
}

// Track keeps the broker status current for streaming Watch clients until
// ctx is done, then marks every service NOT_SERVING.
func (h *HealthServer) Track(ctx context.Context, interval time.Duration) {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer, zap.String(common.LoggerFieldIOTCategory, ServiceBroker))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health watcher stopped")
			h.Shutdown()
			return
		case <-ticker.C:
			h.Refresh()
		}
	}
}
