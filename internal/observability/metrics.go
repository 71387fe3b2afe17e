package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the admin API and the
// auto-close engine.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64

	engineRuns       int64
	ticketsProcessed int64
	ticketsClosed    int64
	engineErrors     int64
	lastRunDuration  time.Duration
}

// EngineSnapshot is a point-in-time copy of the engine counters.
type EngineSnapshot struct {
	Runs             int64
	TicketsProcessed int64
	TicketsClosed    int64
	Errors           int64
	LastRunDuration  time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordEngineRun accumulates the totals of one completed sweep.
func (m *Metrics) RecordEngineRun(processed, closed, errors int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engineRuns++
	m.ticketsProcessed += int64(processed)
	m.ticketsClosed += int64(closed)
	m.engineErrors += int64(errors)
	m.lastRunDuration = duration
}

// EngineStats returns a copy of the engine counters.
func (m *Metrics) EngineStats() EngineSnapshot {
	if m == nil {
		return EngineSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return EngineSnapshot{
		Runs:             m.engineRuns,
		TicketsProcessed: m.ticketsProcessed,
		TicketsClosed:    m.ticketsClosed,
		Errors:           m.engineErrors,
		LastRunDuration:  m.lastRunDuration,
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
