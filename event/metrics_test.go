package event

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	eb := NewEventBus(registry, nil)
	defer eb.Stop()
	typ := EventType("metrics.test")

	_, ch := eb.Subscribe(typ)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(eb.metrics.subscribers.WithLabelValues(string(typ))),
	)

	for i := range 3 {
		eb.Publish(typ, NewEvent(typ, i))
	}
	assert.Equal(
		t,
		float64(3),
		testutil.ToFloat64(eb.metrics.eventsTotal.WithLabelValues(string(typ))),
	)
	for range 3 {
		select {
		case <-ch:
		case <-time.After(1 * time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestEventBusDroppedMetric(t *testing.T) {
	registry := prometheus.NewRegistry()
	eb := NewEventBus(registry, nil)
	defer eb.Stop()
	typ := EventType("metrics.dropped")

	_, ch := eb.Subscribe(typ)
	// Fill the subscriber buffer and publish one more to force a drop
	for range EventQueueSize + 1 {
		eb.Publish(typ, NewEvent(typ, "fill"))
	}
	require.Equal(
		t,
		float64(1),
		testutil.ToFloat64(eb.metrics.eventsDropped.WithLabelValues(string(typ))),
	)
	for range EventQueueSize {
		<-ch
	}
}
