package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsClient_Generate(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/alerts/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"alerts":[{"id":"n1-48h","tier":"48h","recipient_email":"ana@despacho.example"}],"total":1}`))
	}))

	resp, err := c.Alerts().Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "48h", resp.Alerts[0].Tier)
}

func TestAlertsClient_Check(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/alerts/check", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"alert_id":"n1-48h","success":true},{"alert_id":"n2-24h","success":false,"message":"mail API returned status 502"}],"sent":1,"failed":1}`))
	}))

	resp, err := c.Alerts().Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 2)
	assert.False(t, resp.Results[1].Success)
}

func TestAlertsClient_Summary(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/alerts/summary", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"due_within_24h":3,"scheduled_today":2,"scheduled_tomorrow":1,"total_pending":4}`))
	}))

	resp, err := c.Alerts().Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.DueWithin24h)
	assert.Equal(t, 4, resp.TotalPending)
}
