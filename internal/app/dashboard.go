package app

import (
	"context"

	"hris-admin/internal/backendclient"
	"hris-admin/internal/dashboard"
	"hris-admin/internal/events"
	"hris-admin/internal/messaging/kafka/consumer"
	"hris-admin/internal/shared/config"
	"hris-admin/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BuildDashboard merakit BFF dashboard: registry session, client backend,
// consumer event directory dan endpoint /metrics.
func BuildDashboard(ctx context.Context, router *gin.Engine, cfg config.Dashboard) (cleanup func(), err error) {
	logger := zap.L().Named("app.dashboard")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := dashboard.NewMetrics(reg)

	backend := backendclient.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	gate := dashboard.NewGate()
	notifier := dashboard.NewLogNotifier(logger)

	sessions := dashboard.NewRegistry(cfg.SessionCapacity, cfg.SessionTTL, func(id string) *dashboard.Session {
		return dashboard.NewSession(id, dashboard.SessionDeps{
			Backend:  backend,
			Gate:     gate,
			Metrics:  metrics,
			Notifier: notifier,
			Logger:   logger,
		})
	}, logger)

	handler := dashboard.NewHandler(sessions, logger)
	api := router.Group("/api/v1")
	dashboard.RegisterRoutes(api, handler, cfg.JWTSecret, logger)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	consumerCtx, cancel := context.WithCancel(ctx)
	var reader *kafkago.Reader
	if cfg.KafkaBroker != "" {
		reader = kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{connection.BrokerAddr(cfg.KafkaBroker)},
			Topic:          events.DirectoryTopic,
			GroupID:        cfg.KafkaGroupID,
			CommitInterval: 0,
			StartOffset:    kafkago.LastOffset,
		})
		go consumer.ConsumeDirectoryEvents(consumerCtx, reader, sessions, logger)
	} else {
		logger.Warn("KAFKA_BROKER not set, remote directory changes will not be synced")
	}

	return func() {
		cancel()
		if reader != nil {
			_ = reader.Close()
		}
		sessions.Close()
	}, nil
}
