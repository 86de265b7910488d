package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserversBeforeInitAreNoops(t *testing.T) {
	if httpRequests != nil {
		t.Skip("metrics already initialised")
	}
	assert.NotPanics(t, func() {
		ObserveHTTP("GET", "/", 200, time.Millisecond)
		ObserveTransform("", time.Millisecond)
		ObserveExport("", "", time.Millisecond)
		ObserveUpload(10, 1)
	})
}

func TestObserve(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(transformTotal.WithLabelValues("parse"))
	ObserveTransform("parse", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(transformTotal.WithLabelValues("parse")))

	ObserveHTTP("POST", "", 201, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("POST", "unmatched", "201")), 1.0)

	ObserveExport("pdf", "", time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(exportTotal.WithLabelValues("pdf", ResultSuccess)), 1.0)

	ObserveUpload(2048, 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(uploadsActive))
}
