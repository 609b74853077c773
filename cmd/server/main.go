package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/proto"
	"liyu1981.xyz/poultry-house-service/pkg/broker"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/db"
	"liyu1981.xyz/poultry-house-service/pkg/dispatch"
	iotGrpc "liyu1981.xyz/poultry-house-service/pkg/grpc"
	iotHttp "liyu1981.xyz/poultry-house-service/pkg/http"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
	"liyu1981.xyz/poultry-house-service/pkg/live"
	"liyu1981.xyz/poultry-house-service/pkg/monitor"
	"liyu1981.xyz/poultry-house-service/pkg/timeseries"
)

const limiterIdleTimeout = 30 * time.Minute

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	iotDbType := os.Getenv(common.EnvKeyIOTDBType)
	switch iotDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	case "postgres":
		dbInstance = db.GetInstance(db.UsePostgresDialector())
	default:
		log.Fatal("Unknown IOT_DB_TYPE: " + iotDbType)
	}

	grpcHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyIOTGrpcHostPort))
	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyIOTHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyIOTDefaultRate), 64); err != nil {
		log.Fatal("Invalid IOT_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyIOTDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid IOT_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	iotCore := iot.IOT{
		Db: *dbInstance,
	}
	iotCore.WithDefaultServices()

	hub := live.NewHub()
	if redisAddr := strings.TrimSpace(os.Getenv(common.EnvKeyRedisAddr)); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv(common.EnvKeyRedisPassword),
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Error initializing Redis: %v", err)
		}
		defer redisClient.Close()

		redisChannel := live.NewRedisChannel(redisClient)
		iotCore.WithServices(iot.ServiceOpts{Live: redisChannel})
		go func() {
			if err := redisChannel.Relay(ctx, hub); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("live relay stopped", zap.Error(err))
			}
		}()
		logger.Info("live events relayed through redis " + redisAddr)
	} else {
		iotCore.WithServices(iot.ServiceOpts{Live: hub})
	}

	if influxURL := strings.TrimSpace(os.Getenv(common.EnvKeyInfluxURL)); influxURL != "" {
		mirror := timeseries.NewInfluxMirror(
			influxURL,
			os.Getenv(common.EnvKeyInfluxToken),
			os.Getenv(common.EnvKeyInfluxOrg),
			os.Getenv(common.EnvKeyInfluxBucket),
		)
		defer mirror.Close()
		iotCore.WithServices(iot.ServiceOpts{Mirror: mirror})
		logger.Info("sensor readings mirrored to influxdb " + influxURL)
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithBrand(common.GetEnvOrDefault(common.EnvKeyNotificationBrand, common.DefaultNotificationBrand)),
		dispatch.WithMaxSmsLength(common.GetEnvInt(common.EnvKeySMSMaxMessageLength, dispatch.DefaultMaxSmsLength)),
	}
	if smtpHost := strings.TrimSpace(os.Getenv(common.EnvKeySMTPHost)); smtpHost != "" {
		dispatchOpts = append(dispatchOpts, dispatch.WithEmailSender(dispatch.NewSMTPSender(dispatch.SMTPConfig{
			Host:      smtpHost,
			Port:      common.GetEnvInt(common.EnvKeySMTPPort, 0),
			Username:  os.Getenv(common.EnvKeySMTPUsername),
			Password:  os.Getenv(common.EnvKeySMTPPassword),
			FromEmail: os.Getenv(common.EnvKeySMTPFromEmail),
			FromName:  os.Getenv(common.EnvKeySMTPFromName),
		})))
	}
	if smsProvider := strings.TrimSpace(os.Getenv(common.EnvKeySMSProvider)); smsProvider != "" {
		smsSender, err := dispatch.NewSmsSender(smsProvider, dispatch.SmsConfig{
			AccountID:  os.Getenv(common.EnvKeySMSAccountID),
			AuthToken:  os.Getenv(common.EnvKeySMSAuthToken),
			FromNumber: os.Getenv(common.EnvKeySMSFromNumber),
		})
		if err != nil {
			log.Fatalf("Invalid SMS_PROVIDER: %v", err)
		}
		dispatchOpts = append(dispatchOpts, dispatch.WithSmsSender(smsSender))
	}
	dispatcher := dispatch.New(&iotCore, dispatchOpts...)

	session := broker.NewSession(&iotCore)
	brokerHost := common.GetEnvOrDefault(common.EnvKeyMQTTBrokerHost, "localhost")
	brokerPort := common.GetEnvInt(common.EnvKeyMQTTBrokerPort, common.DefaultMQTTBrokerPort)
	if autoUser := strings.TrimSpace(os.Getenv(common.EnvKeyMQTTAutoConnectUser)); autoUser != "" {
		if err := session.Connect(ctx, autoUser, brokerHost, brokerPort); err != nil {
			logger.Error("broker auto connect failed", zap.String("user_id", autoUser), zap.Error(err))
		}
	}

	interval := time.Duration(common.GetEnvInt(common.EnvKeyMonitorIntervalSecs, common.DefaultMonitorIntervalSecs)) * time.Second
	go func() {
		if err := monitor.New(&iotCore, dispatcher, monitor.WithInterval(interval)).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("threshold monitor stopped", zap.Error(err))
		}
	}()
	logger.Info("threshold monitor started", zap.Duration("interval", interval))

	limiterStore := iot.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst))
	go func() {
		ticker := time.NewTicker(limiterIdleTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiterStore.Prune(limiterIdleTimeout); n > 0 {
					logger.Debug("pruned idle limiters", zap.Int("count", n))
				}
			}
		}
	}()

	if grpcHostPort != "" {
		logger.Info("Starting gRPC server on port " + grpcHostPort)
		go func() {
			healthServer := iotGrpc.NewHealthServer(session, limiterStore)
			interceptor := healthServer.CreateRateLimitInterceptor([]proto.Message{
				&healthpb.HealthCheckRequest{},
			})
			s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
			healthpb.RegisterHealthServer(s, healthServer)
			go healthServer.Track(ctx, 5*time.Second)
			logger.Info("gRPC server created with:",
				zap.String("default_limiter",
					fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

			listener, err := net.Listen("tcp", grpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			go func() {
				<-ctx.Done()
				s.GracefulStop()
			}()

			logger.Info("start gRPC server on " + grpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &iotHttp.RestfulServer{
		Server:           gin.Default(),
		Iot:              &iotCore,
		Broker:           session,
		Hub:              hub,
		RateLimiterStore: limiterStore,
		BrokerHost:       brokerHost,
		BrokerPort:       brokerPort,
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	origins := common.SplitList(os.Getenv(common.EnvKeyCORSAllowedOrigins))
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", iotHttp.HeaderUserID},
		AllowCredentials: true,
	})
	httpServer := &http.Server{
		Addr:    httpHostPort,
		Handler: c.Handler(rs.Server),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", zap.Error(err))
		}
		if err := session.Disconnect(); err != nil {
			logger.Error("broker disconnect failed", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server failed to serve: %v", err)
	}
	<-shutdownDone
}
