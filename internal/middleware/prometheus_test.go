package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	counter := common.PromCounters[common.HTTPRequestTotal]
	labels := prometheus.Labels{"path": "/getRewardTickets", "status_code": "300004"}

	c, err := counter.GetMetricWith(labels)
	require.NoError(t, err)
	before := promtestutil.ToFloat64(c)

	req := httptest.NewRequest("GET", "/getRewardTickets?reward_id=1", nil)
	ctx := xcontext.WithHTTPRequest(context.Background(), req)
	ctx = xcontext.WithError(ctx, errorx.New(errorx.NoTicketsSold, "No tickets sold"))
	Prometheus()(ctx)

	require.Equal(t, before+1, promtestutil.ToFloat64(c))

	// The route is exported under the path label, not the method label.
	_, err = counter.GetMetricWith(prometheus.Labels{"method": "GET", "status_code": "0"})
	require.Error(t, err)
}
