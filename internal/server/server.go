package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hoteldesk/internal/config"
	"hoteldesk/internal/middleware"
	"hoteldesk/internal/modules/live"
	"hoteldesk/internal/modules/report"
	"hoteldesk/internal/modules/rooms"
	"hoteldesk/internal/pkg/logger"
	"hoteldesk/internal/pkg/metrics"
	"hoteldesk/internal/pkg/response"
	"hoteldesk/internal/repository"
)

const metricsNamespace = "hoteldesk"

// App is the wired application: the hotel loaded from disk, its services
// and the HTTP router in front of them.
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics
	Repo    *repository.HotelRepository
	Rooms   *rooms.Service
	Reports *report.Service
	Hub     *live.Hub
	Router  *gin.Engine
}

// New loads the hotel from cfg.DataFile and wires every component.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	repo, err := repository.NewHotelRepository(cfg.DataFile, log)
	if err != nil {
		return nil, err
	}
	hotel, err := repo.Load()
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.NewMetrics(metricsNamespace, reg)
	}

	hub := live.NewHub(log, middleware.OriginChecker(cfg.AllowedOrigins))
	roomService := rooms.NewService(hotel, repo, hub, m, log)
	app := &App{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Repo:    repo,
		Rooms:   roomService,
		Reports: report.NewService(roomService),
		Hub:     hub,
	}
	app.Router = app.routes()
	return app, nil
}

func (a *App) routes() *gin.Engine {
	gin.SetMode(a.Config.GinMode())
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(a.Logger),
		middleware.CORS(a.Config.AllowedOrigins),
	)
	if a.Metrics != nil {
		r.Use(middleware.Metrics(a.Metrics))
		r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	}

	r.GET("/health", a.health)
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	v1 := r.Group("/api/v1")
	{
		rooms.NewHandler(a.Rooms).RegisterRoutes(v1)
		report.NewHandler(a.Reports).RegisterRoutes(v1)
		live.NewHandler(a.Hub).RegisterRoutes(v1)
	}
	return r
}

func (a *App) health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"status":      "ok",
		"rooms":       a.Reports.Stats().TotalRooms,
		"liveClients": a.Hub.Clients(),
	})
}

// HTTPServer returns the server for cfg.HTTPAddr with the configured
// timeouts.
func (a *App) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}
}
