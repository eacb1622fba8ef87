package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/service"
	"github.com/pixelcraft/booking-service/pkg/health"
	"github.com/pixelcraft/booking-service/pkg/middleware"
)

// NewRouter creates a chi router with all booking service routes registered.
func NewRouter(
	checkoutService *service.CheckoutService,
	offerService *service.OfferService,
	authService *service.AuthService,
	webhookSecret string,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("booking"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	paymentHandler := NewPaymentHandler(checkoutService, logger)
	webhookHandler := NewWebhookHandler(checkoutService, webhookSecret, logger)
	offerHandler := NewOfferHandler(offerService, logger)
	authHandler := NewAuthHandler(authService, logger)

	r.Route("/api/v1/checkout/sessions", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", checkoutHandler.StartSession)
		r.Get("/{id}", checkoutHandler.GetSession)
		r.Post("/{id}/next", checkoutHandler.NextStep)
		r.Post("/{id}/back", checkoutHandler.BackStep)
		r.Patch("/{id}/selections", checkoutHandler.UpdateSelections)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", checkoutHandler.MaterializeOrder)
		r.Get("/{id}", checkoutHandler.GetOrder)
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/orders", paymentHandler.CreateGatewayOrder)
		r.Post("/verify", paymentHandler.VerifyPayment)
		r.Post("/{orderID}/cancel", paymentHandler.CancelPayment)
	})

	// The gateway signs the raw body; no content-type enforcement here.
	r.Post("/api/v1/webhooks/payment", webhookHandler.HandleEvent)

	r.Route("/api/v1/offers", func(r chi.Router) {
		r.Get("/", offerHandler.ListActive)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(adminTokenValidator(authService)))
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Get("/orders", checkoutHandler.ListOrders)

		r.Get("/offers", offerHandler.ListAll)
		r.Post("/offers", offerHandler.CreateOffer)
		r.Get("/offers/{id}", offerHandler.GetOffer)
		r.Put("/offers/{id}", offerHandler.UpdateOffer)
		r.Delete("/offers/{id}", offerHandler.DeleteOffer)
	})

	return r
}

// adminTokenValidator adapts the auth service's JWT validation to the shape
// the auth middleware expects.
func adminTokenValidator(authService *service.AuthService) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := authService.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			Subject: claims.AdminID,
			Email:   claims.Email,
			Role:    claims.Role,
		}, nil
	}
}
