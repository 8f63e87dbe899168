package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitclub/internal/admin"
	"fitclub/internal/auth"
	"fitclub/internal/booking"
	"fitclub/internal/config"
	"fitclub/internal/ledger"
	"fitclub/internal/member"
	"fitclub/internal/plan"
	"fitclub/internal/report"
	"fitclub/internal/staff"
	"fitclub/internal/supplement"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by the server.
type Handlers struct {
	Members       *member.Handler
	Plans         *plan.Handler
	Subscriptions *ledger.Handler
	Staff         *staff.Handler
	Bookings      *booking.Handler
	Admin         *admin.Handler
	Reports       *report.Handler
	Supplements   *supplement.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	limits *RateLimiter
}

func New(cfg *config.Config, h Handlers, checks map[string]Check) *Server {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	limits := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		TimeoutMiddleware(cfg.RequestTimeout),
		limits.Middleware(),
	)

	router.GET("/health", Health(checks))
	router.GET("/metrics", Metrics())
	router.GET("/plans", h.Plans.List)
	router.GET("/supplements", h.Supplements.List)
	router.GET("/supplements/:supplementID", h.Supplements.Get)

	public := router.Group("/auth")
	{
		public.POST("/register", h.Members.Register)
		public.POST("/login", h.Members.Login)
		public.POST("/refresh", h.Members.RefreshToken)
	}

	authMiddleware := auth.Middleware(cfg.JWTSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.Members.GetMe)
		protected.PUT("/me/profile", h.Members.UpdateProfile)
		protected.POST("/me/password", h.Members.ChangePassword)
		protected.DELETE("/me", h.Members.DeleteMe)

		protected.POST("/subscriptions", h.Subscriptions.Subscribe)
		protected.POST("/subscriptions/cancel", h.Subscriptions.Cancel)
		protected.GET("/subscriptions/current", h.Subscriptions.GetCurrent)
		protected.GET("/subscriptions/history", h.Subscriptions.GetHistory)

		protected.GET("/staff/active", h.Staff.ListActive)

		protected.POST("/bookings", h.Bookings.CreateBooking)
		protected.DELETE("/bookings/active", h.Bookings.CancelMyBooking)
		protected.GET("/bookings/active", h.Bookings.GetMyActiveBooking)
		protected.GET("/bookings/me", h.Bookings.ListMyBookings)
		protected.GET("/bookings/slot", h.Bookings.GetSlot)

		protected.POST("/orders", h.Supplements.PlaceOrder)
		protected.GET("/orders/me", h.Supplements.ListMyOrders)
		protected.GET("/admin-contact", h.Members.AdminContact)
	}

	adminGroup := router.Group("/admin")
	adminGroup.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		adminGroup.GET("/members", h.Members.ListMembers)
		adminGroup.DELETE("/members/:memberID", h.Members.DeleteMember)
		adminGroup.POST("/members/:memberID/cancel-subscription", h.Admin.CancelSubscription)
		adminGroup.GET("/members/:memberID/actions", h.Admin.ListActions)
		adminGroup.DELETE("/members/:memberID/booking", h.Bookings.CancelMemberBooking)

		adminGroup.GET("/bookings", h.Bookings.ListBookings)

		adminGroup.GET("/staff", h.Staff.List)
		adminGroup.POST("/staff", h.Staff.Create)
		adminGroup.PUT("/staff/:staffID", h.Staff.Update)
		adminGroup.DELETE("/staff/:staffID", h.Staff.Delete)

		adminGroup.PUT("/plans/:planID", h.Plans.Update)

		adminGroup.GET("/supplements", h.Supplements.List)
		adminGroup.POST("/supplements", h.Supplements.Create)
		adminGroup.PUT("/supplements/:supplementID", h.Supplements.Update)
		adminGroup.DELETE("/supplements/:supplementID", h.Supplements.Delete)
		adminGroup.GET("/reports/monthly", h.Reports.Monthly)
	}

	return &Server{
		router: router,
		limits: limits,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the listener fails or Shutdown is called, in which case
// it returns nil. Start after Shutdown returns nil immediately.
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limits.Stop()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
