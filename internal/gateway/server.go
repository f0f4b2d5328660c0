package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/resumerank/pkg/authclient"
	"github.com/nao1215/resumerank/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server はAPI Gatewayサービスの HTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// routes は転送先のルートテーブル。
	routes *RouteTable
	// httpClient は内部サービスへの転送に使うクライアント。
	httpClient *http.Client
	// metrics はgatewayのメトリクス。
	metrics *Metrics
	// registry は /actuator/prometheus で公開するレジストリ。
	registry *prometheus.Registry
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(cfg Config) (*Server, error) {
	verifier := authclient.New(cfg.AuthServiceURL, cfg.ValidationTimeout)
	return newServer(cfg, verifier)
}

// newServer は検証クライアントを差し替えてサーバーを生成する。
func newServer(cfg Config, verifier TokenVerifier) (*Server, error) {
	routes, err := NewRouteTable(cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("ルートテーブルの構築に失敗: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(registry)
	filter := NewAuthFilter(NewExcludedPathSet(cfg.ExcludedPaths...), verifier, metrics)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	// CORSはレスポンスヘッダーの付与とプリフライトの応答のみで、リクエストは書き換えない
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	// 認証フィルタはリクエストを書き換える他のミドルウェアより前に置く
	router.Use(filter.Handler())
	router.Use(middleware.RequestID())

	s := &Server{
		router:     router,
		port:       cfg.Port,
		routes:     routes,
		httpClient: newForwardClient(cfg.ForwardTimeout),
		metrics:    metrics,
		registry:   registry,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes はルーティングを設定する。
// actuator以外のパスは全てルートテーブルに従って転送する。
func (s *Server) setupRoutes() {
	actuator := s.router.Group("/actuator")
	{
		actuator.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
		actuator.GET("/prometheus", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	s.router.NoRoute(s.handleForward())
}
