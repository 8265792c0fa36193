package marketdata

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// ServerConfig holds the query API listen settings.
type ServerConfig struct {
	Addr string `env:"MARKET_DATA_ADDR" envDefault:":8080"`
}

// Server exposes the read model over HTTP. It serves eventually consistent
// views; the authoritative state lives in the matching goroutine.
type Server struct {
	projector *Projector
	registry  *prometheus.Registry
	httpSrv   *http.Server
	logger    logger.Interface
}

// NewServer wires the query routes on top of a projector. registry may be
// nil when metrics are not exposed.
func NewServer(cfg ServerConfig, projector *Projector, registry *prometheus.Registry, log logger.Interface) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		projector: projector,
		registry:  registry,
		logger:    log,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if registry != nil {
		router.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		))
	}

	v1 := router.Group("/v1")
	v1.GET("/book/:pair", s.getBook)
	v1.GET("/depth/:pair", s.getDepth)
	v1.GET("/bbo/:pair", s.getBbo)
	v1.GET("/trades/:pair", s.getTrades)

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("market data server listening",
		logger.Field{Key: "addr", Value: s.httpSrv.Addr},
	)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) getBook(c *gin.Context) {
	pair := orderbookv1.CurrencyPair(c.Param("pair"))
	snap, ok := s.projector.Book(pair)
	if !ok {
		notFound(c, pair)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getDepth(c *gin.Context) {
	pair := orderbookv1.CurrencyPair(c.Param("pair"))
	d, ok := s.projector.Depth(pair)
	if !ok {
		notFound(c, pair)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) getBbo(c *gin.Context) {
	pair := orderbookv1.CurrencyPair(c.Param("pair"))
	b, ok := s.projector.Bbo(pair)
	if !ok {
		notFound(c, pair)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) getTrades(c *gin.Context) {
	pair := orderbookv1.CurrencyPair(c.Param("pair"))
	c.JSON(http.StatusOK, gin.H{
		"pair":   pair,
		"trades": s.projector.Trades(pair),
	})
}

func notFound(c *gin.Context, pair orderbookv1.CurrencyPair) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "no data for pair " + string(pair),
	})
}
