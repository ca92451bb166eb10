// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for the framing engine: frame and byte
// counters a Consumer implementation can update from its callbacks.

package control

import (
	"sync"
	"time"
)

// Metrics holds counters a Consumer updates as it processes frames.
type Metrics struct {
	FramesReceived uint64
	BytesReceived  uint64
	ControlFrames  uint64
	ProtocolErrors uint64
	Updated        time.Time
}

// MetricsRegistry is a thread-safe holder for Metrics.
type MetricsRegistry struct {
	mu sync.RWMutex
	m  Metrics
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{}
}

// AddFrame records one received frame of n payload bytes.
func (mr *MetricsRegistry) AddFrame(n int, control bool) {
	mr.mu.Lock()
	mr.m.FramesReceived++
	mr.m.BytesReceived += uint64(n)
	if control {
		mr.m.ControlFrames++
	}
	mr.m.Updated = time.Now()
	mr.mu.Unlock()
}

// AddProtocolError records one ForceClose-triggering violation.
func (mr *MetricsRegistry) AddProtocolError() {
	mr.mu.Lock()
	mr.m.ProtocolErrors++
	mr.m.Updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the current counters.
func (mr *MetricsRegistry) GetSnapshot() Metrics {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.m
}
