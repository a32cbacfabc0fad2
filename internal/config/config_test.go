package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "meshtun.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "peer_center:\n  my_peer_id: 42\n")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Tun.DevName != "meshtun0" {
		t.Fatalf("Tun.DevName = %q, want meshtun0", c.Tun.DevName)
	}
	if c.Tun.QueueNum != 1 {
		t.Fatalf("Tun.QueueNum = %d, want 1", c.Tun.QueueNum)
	}
	if c.Tun.MTU != 1420 {
		t.Fatalf("Tun.MTU = %d, want 1420", c.Tun.MTU)
	}
	if c.PeerCenter.MyPeerID != 42 {
		t.Fatalf("PeerCenter.MyPeerID = %d, want 42", c.PeerCenter.MyPeerID)
	}
	if c.PeerCenter.FetchPeriod != 5*time.Second {
		t.Fatalf("PeerCenter.FetchPeriod = %v, want 5s", c.PeerCenter.FetchPeriod)
	}
	if c.Metrics.Listen != "127.0.0.1:9400" {
		t.Fatalf("Metrics.Listen = %q, want 127.0.0.1:9400", c.Metrics.Listen)
	}
}

func TestLoadConfig_RejectsBadIP(t *testing.T) {
	path := writeConfig(t, "tun:\n  ip: not-an-ip\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected an error for an invalid tun.ip")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
