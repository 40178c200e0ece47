package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginrouter "rest-user-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(opts ginrouter.Options, addr string, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(opts)

	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
