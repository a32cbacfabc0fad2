// Package config loads the daemon's YAML configuration file, filling in
// defaults for anything the file leaves unset.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TunConfig controls the virtual NIC bridge (C1-C5).
type TunConfig struct {
	DevName  string `yaml:"dev_name"`
	QueueNum int    `yaml:"queue_num"`

	IP     string `yaml:"ip"`
	CIDR   uint8  `yaml:"cidr"`
	MTU    int    `yaml:"mtu"`
	Routes []string `yaml:"routes"`
}

// PeerCenterConfig controls the leader-election/gossip coordinator (C6-C10).
type PeerCenterConfig struct {
	MyPeerID    uint64        `yaml:"my_peer_id"`
	FetchPeriod time.Duration `yaml:"fetch_period"`
}

// MetricsConfig controls the hand-rolled /metrics exposition server (C13).
type MetricsConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

// Config is the daemon's full configuration.
type Config struct {
	Tun         TunConfig        `yaml:"tun"`
	PeerCenter  PeerCenterConfig `yaml:"peer_center"`
	Metrics     MetricsConfig    `yaml:"metrics"`
}

// LoadConfig reads and parses path, backfilling dev_name, queue_num, mtu,
// cidr, fetch_period and the metrics listen address with this package's
// defaults when left at their zero value. ip, routes, my_peer_id and
// metrics.enable have no defaults; a non-empty ip must parse as an address.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if c.Tun.DevName == "" {
		c.Tun.DevName = "meshtun0"
	}
	if c.Tun.QueueNum == 0 {
		c.Tun.QueueNum = 1
	}
	if c.Tun.MTU == 0 {
		c.Tun.MTU = 1420
	}
	if c.Tun.CIDR == 0 {
		c.Tun.CIDR = 24
	}
	if c.Tun.IP != "" {
		if _, err := netip.ParseAddr(c.Tun.IP); err != nil {
			return nil, fmt.Errorf("config: tun.ip %q: %w", c.Tun.IP, err)
		}
	}

	if c.PeerCenter.FetchPeriod == 0 {
		c.PeerCenter.FetchPeriod = 5 * time.Second
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = "127.0.0.1:9400"
	}

	return &c, nil
}
