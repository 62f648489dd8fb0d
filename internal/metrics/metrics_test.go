package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveNotification(t *testing.T) {
	m := New()
	m.ObserveNotification("email", nil)
	m.ObserveNotification("email", errors.New("smtp down"))
	m.ObserveNotification("email", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("email", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("email", "failed")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.OrdersCreated.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "groundnut_orders_created_total 1")
}

func TestNewIsIsolated(t *testing.T) {
	// Two servers in one process must not collide on registration.
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
