package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "ok"))
	Auth("login", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(AuthEvents.WithLabelValues("login", "ok")))

	beforeMail := testutil.ToFloat64(MailFailures.WithLabelValues("event"))
	MailFailed("event")
	assert.Equal(t, beforeMail+1, testutil.ToFloat64(MailFailures.WithLabelValues("event")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	Auth("signup", "ok")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bvchub_auth_events_total")
}
