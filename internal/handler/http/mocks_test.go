package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pixelcraft/booking-service/internal/auth"
	"github.com/pixelcraft/booking-service/internal/domain"
	gwmock "github.com/pixelcraft/booking-service/internal/gateway/mock"
	"github.com/pixelcraft/booking-service/internal/pricing"
	"github.com/pixelcraft/booking-service/internal/repository"
	"github.com/pixelcraft/booking-service/internal/service"
	"github.com/pixelcraft/booking-service/internal/wizard"
)

const testPaymentSecret = "test-payment-secret"

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error {
	args := m.Called(ctx, id, gatewayOrderID)
	return args.Error(0)
}

func (m *mockOrderRepository) MarkConfirmed(ctx context.Context, id, paymentID string) (bool, error) {
	args := m.Called(ctx, id, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepository) MarkFailed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Save(ctx context.Context, session *wizard.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Session), args.Error(1)
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockOfferRepository struct {
	mock.Mock
}

func (m *mockOfferRepository) Create(ctx context.Context, offer *domain.SpecialOffer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *mockOfferRepository) GetByID(ctx context.Context, id string) (*domain.SpecialOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpecialOffer), args.Error(1)
}

func (m *mockOfferRepository) ListActive(ctx context.Context, now time.Time) ([]domain.SpecialOffer, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.SpecialOffer), args.Error(1)
}

func (m *mockOfferRepository) ListAll(ctx context.Context, page, perPage int) ([]domain.SpecialOffer, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.SpecialOffer), args.Int(1), args.Error(2)
}

func (m *mockOfferRepository) Update(ctx context.Context, offer *domain.SpecialOffer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *mockOfferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAdminRepository struct {
	mock.Mock
}

func (m *mockAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockPublisher) PublishOrderFailed(ctx context.Context, order *domain.Order, reason string) error {
	args := m.Called(ctx, order, reason)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-jwt-secret", time.Hour)
}

// quietPublisher accepts every publish call so tests that do not assert on
// events stay terse.
func quietPublisher() *mockPublisher {
	pub := new(mockPublisher)
	pub.On("PublishOrderCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	pub.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil).Maybe()
	pub.On("PublishOrderFailed", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return pub
}

func testCheckoutService(orders *mockOrderRepository, sessions *mockSessionStore) *service.CheckoutService {
	return service.NewCheckoutService(
		orders,
		sessions,
		gwmock.NewGateway(),
		quietPublisher(),
		pricing.DefaultCatalog(),
		testPaymentSecret,
		"INR",
		testLogger(),
	)
}

func testOfferService(repo *mockOfferRepository) *service.OfferService {
	return service.NewOfferService(repo, testLogger())
}

func testAuthService(admins *mockAdminRepository) *service.AuthService {
	return service.NewAuthService(admins, testJWTManager(), testLogger())
}
