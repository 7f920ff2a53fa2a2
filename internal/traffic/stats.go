package traffic

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// EndpointStats tallies the results for one endpoint.
type EndpointStats struct {
	Sent         int
	Failed       int // no response received
	Statuses     map[int]int
	TotalLatency time.Duration
	MaxLatency   time.Duration
}

// MeanLatency returns the average latency of the requests that were sent.
func (e EndpointStats) MeanLatency() time.Duration {
	if e.Sent == 0 {
		return 0
	}
	return e.TotalLatency / time.Duration(e.Sent)
}

// Stats aggregates results across workers.
type Stats struct {
	mu        sync.Mutex
	endpoints map[string]*EndpointStats

	StartTime time.Time
	EndTime   time.Time
}

func newStats() *Stats {
	return &Stats{endpoints: map[string]*EndpointStats{}, StartTime: time.Now()}
}

// Add records one result.
func (s *Stats) Add(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.endpoints[r.Endpoint]
	if !ok {
		e = &EndpointStats{Statuses: map[int]int{}}
		s.endpoints[r.Endpoint] = e
	}
	e.Sent++
	e.TotalLatency += r.Latency
	e.MaxLatency = max(e.MaxLatency, r.Latency)
	if r.Err != nil {
		e.Failed++
		return
	}
	e.Statuses[r.Status]++
}

// Endpoint returns a copy of the tallies for name.
func (s *Stats) Endpoint(name string) EndpointStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.endpoints[name]
	if !ok {
		return EndpointStats{Statuses: map[int]int{}}
	}
	out := *e
	out.Statuses = maps.Clone(e.Statuses)
	return out
}

// EndpointNames returns the endpoints that received traffic, sorted.
func (s *Stats) EndpointNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.endpoints))
}

// Total returns the number of requests sent and how many got no response.
func (s *Stats) Total() (sent, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.endpoints {
		sent += e.Sent
		failed += e.Failed
	}
	return sent, failed
}

// Duration returns the wall time of the run.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
