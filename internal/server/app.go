package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mth-wallet/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultHost 未配置监听地址时只绑定本机
const DefaultHost = "127.0.0.1"

type Config struct {
	HttpHost        string
	HttpPort        string
	ShutdownTimeout time.Duration
}

type App struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

func New(cfg Config, httpHandler *gin.Engine) *App {
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	host := cfg.HttpHost
	if host == "" {
		host = DefaultHost
	}
	return &App{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(host, cfg.HttpPort),
			Handler:           httpHandler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Run 启动服务并阻塞，直到收到关闭信号
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve 启动 HTTP 服务，ctx 结束后优雅关闭
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		logger.Error("HTTP Server listen failed", zap.String("addr", a.httpServer.Addr), zap.Error(err))
		return err
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener 在已有的 listener 上提供服务
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP Server", zap.String("addr", ln.Addr().String()))
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("HTTP Server failure", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP Server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("Server exited properly")
	return nil
}
