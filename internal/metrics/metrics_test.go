package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_DisabledByDefault(t *testing.T) {
	mu.Lock()
	m = telemetry{}
	mu.Unlock()

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != 503 {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestHandler_RendersObservedCounters(t *testing.T) {
	mu.Lock()
	m = telemetry{}
	mu.Unlock()
	Enable()

	ObserveTunPacket("rx", 64)
	ObserveTunPacket("rx", 36)
	ObserveFetch("3")

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `meshtun_tun_packets_total{dir="rx"} 2`) {
		t.Fatalf("missing rx packet count in body:\n%s", body)
	}
	if !strings.Contains(body, `meshtun_tun_bytes_total{dir="rx"} 100`) {
		t.Fatalf("missing rx byte count in body:\n%s", body)
	}
	if !strings.Contains(body, `meshtun_peercenter_fetch_total{leader="3"} 1`) {
		t.Fatalf("missing fetch count in body:\n%s", body)
	}
}
