package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "booking_db", cfg.PostgresDB)
	assert.Equal(t, GatewayMock, cfg.GatewayProvider)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, 30, cfg.SessionTTLMinutes)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("BOOKING_HTTP_PORT", "0")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_RazorpayRequiresCredentials(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY", "razorpay")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "RAZORPAY_KEY_ID")
}

func TestLoad_RazorpayWithCredentials(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY", "razorpay")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, GatewayRazorpay, cfg.GatewayProvider)
	assert.Equal(t, "rzp_test_abc", cfg.RazorpayKeyID)
}

func TestLoad_UnknownGateway(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY", "stripe")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown PAYMENT_GATEWAY")
}

func TestLoad_InvalidCurrency(t *testing.T) {
	t.Setenv("BOOKING_CURRENCY", "RUPEES")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "3-letter code")
}
