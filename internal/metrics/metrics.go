// Package metrics exposes a hand-rolled Prometheus-text /metrics endpoint,
// tracking the tunnel's packet flow and the peer center's RPC and digest
// activity.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

type telemetry struct {
	enabled bool
	mu      sync.RWMutex

	tunPacketsTotal map[string]uint64
	tunBytesTotal   map[string]uint64
	tunErrorsTotal  map[string]uint64

	pcFetchTotal    map[string]uint64
	pcReportTotal   map[string]uint64
	pcRPCFailures   map[string]uint64
	pcGlobalMapSize map[string]float64
}

var (
	mu sync.RWMutex
	m  = telemetry{}
)

// Enable turns metrics collection on. Calling it more than once is a no-op.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	if m.enabled {
		return
	}
	m.tunPacketsTotal = make(map[string]uint64)
	m.tunBytesTotal = make(map[string]uint64)
	m.tunErrorsTotal = make(map[string]uint64)
	m.pcFetchTotal = make(map[string]uint64)
	m.pcReportTotal = make(map[string]uint64)
	m.pcRPCFailures = make(map[string]uint64)
	m.pcGlobalMapSize = make(map[string]float64)
	m.enabled = true
}

// StartServer runs the /metrics HTTP endpoint until ctx is done.
func StartServer(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("metrics: empty listen address")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics: serve %s: %w", addr, err)
	}
	return nil
}

// ObserveTunPacket records one packet moved through the tunnel bridge in
// direction "rx" or "tx".
func ObserveTunPacket(direction string, bytes int) {
	mu.RLock()
	if !m.enabled {
		mu.RUnlock()
		return
	}
	m.mu.Lock()
	mu.RUnlock()
	defer m.mu.Unlock()
	k := fmt.Sprintf("dir=%s", direction)
	m.tunPacketsTotal[k]++
	m.tunBytesTotal[k] += uint64(bytes)
}

// ObserveTunError records a tunnel device error, bucketed by kind.
func ObserveTunError(kind string) {
	mu.RLock()
	if !m.enabled {
		mu.RUnlock()
		return
	}
	m.mu.Lock()
	mu.RUnlock()
	defer m.mu.Unlock()
	m.tunErrorsTotal[fmt.Sprintf("kind=%s", kind)]++
}

// ObserveFetch records one fetch-job iteration against leader.
func ObserveFetch(leader string) {
	mu.RLock()
	if !m.enabled {
		mu.RUnlock()
		return
	}
	m.mu.Lock()
	mu.RUnlock()
	defer m.mu.Unlock()
	m.pcFetchTotal[fmt.Sprintf("leader=%s", leader)]++
}

// ObserveReport records one report-job iteration against leader.
func ObserveReport(leader string) {
	mu.RLock()
	if !m.enabled {
		mu.RUnlock()
		return
	}
	m.mu.Lock()
	mu.RUnlock()
	defer m.mu.Unlock()
	m.pcReportTotal[fmt.Sprintf("leader=%s", leader)]++
}

// ObserveRPCFailure records a transport-level RPC failure, bucketed by job.
func ObserveRPCFailure(job string) {
	mu.RLock()
	if !m.enabled {
		mu.RUnlock()
		return
	}
	m.mu.Lock()
	mu.RUnlock()
	defer m.mu.Unlock()
	m.pcRPCFailures[fmt.Sprintf("job=%s", job)]++
}

// SetGlobalMapSize records the current node count in the local global map.
func SetGlobalMapSize(n int) {
	mu.RLock()
	if !m.enabled {
		mu.RUnlock()
		return
	}
	m.mu.Lock()
	mu.RUnlock()
	defer m.mu.Unlock()
	m.pcGlobalMapSize["map=global"] = float64(n)
}

func handler(w http.ResponseWriter, _ *http.Request) {
	mu.RLock()
	enabled := m.enabled
	mu.RUnlock()
	if !enabled {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("# metrics disabled\n"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	m.mu.RLock()
	defer m.mu.RUnlock()

	writeCounterVec(w, "meshtun_tun_packets_total", m.tunPacketsTotal)
	writeCounterVec(w, "meshtun_tun_bytes_total", m.tunBytesTotal)
	writeCounterVec(w, "meshtun_tun_errors_total", m.tunErrorsTotal)
	writeCounterVec(w, "meshtun_peercenter_fetch_total", m.pcFetchTotal)
	writeCounterVec(w, "meshtun_peercenter_report_total", m.pcReportTotal)
	writeCounterVec(w, "meshtun_peercenter_rpc_failures_total", m.pcRPCFailures)
	writeGaugeVec(w, "meshtun_peercenter_global_map_size", m.pcGlobalMapSize)
}

func writeCounterVec(w http.ResponseWriter, name string, data map[string]uint64) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s} %d\n", name, toPromLabels(k), data[k])
	}
}

func writeGaugeVec(w http.ResponseWriter, name string, data map[string]float64) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s} %.0f\n", name, toPromLabels(k), data[k])
	}
}

func toPromLabels(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		parts[i] = fmt.Sprintf("%s=\"%s\"", kv[0], strings.ReplaceAll(kv[1], "\"", "\\\""))
	}
	return strings.Join(parts, ",")
}
