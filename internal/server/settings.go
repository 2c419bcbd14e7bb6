package server

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/bizplan/internal/config"
)

const (
	// DefaultMaxBodyBytes caps a draft or summary request at 1 MB. Long
	// meeting transcripts are the largest payload the form produces.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultReadTimeout bounds reading a request, body included.
	DefaultReadTimeout = 15 * time.Second
	// DefaultIdleTimeout closes keep-alive connections left unused this long.
	DefaultIdleTimeout = 60 * time.Second

	// replySlack is added to the summary timeout so the server finishes
	// writing a 504 before its own write deadline passes.
	replySlack = 15 * time.Second
)

// Settings is how `bizplan serve` binds and bounds the draft API.
type Settings struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	// WriteTimeout covers the whole handler, so it must outlast a summary
	// request.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SettingsFromConfig reads the project's server and summary sections, then
// applies BIZPLAN_SERVER_HOST and BIZPLAN_SERVER_PORT.
func SettingsFromConfig(cfg *config.Config) Settings {
	summaryTimeout := config.DefaultSummaryTimeout
	settings := Settings{Host: config.DefaultHost, Port: config.DefaultPort}
	if cfg != nil {
		if host := strings.TrimSpace(cfg.Project.Server.Host); host != "" {
			settings.Host = host
		}
		settings.Port = cfg.Project.Server.Port
		if cfg.Project.Summary.Timeout > 0 {
			summaryTimeout = cfg.Project.Summary.Timeout
		}
	}
	settings.WriteTimeout = summaryTimeout + replySlack
	if host := strings.TrimSpace(os.Getenv("BIZPLAN_SERVER_HOST")); host != "" {
		settings.Host = host
	}
	if port, err := strconv.Atoi(strings.TrimSpace(os.Getenv("BIZPLAN_SERVER_PORT"))); err == nil && validPort(port) {
		settings.Port = port
	}
	settings.fillDefaults()
	return settings
}

func (s *Settings) fillDefaults() {
	if s.Host = strings.TrimSpace(s.Host); s.Host == "" {
		s.Host = config.DefaultHost
	}
	if !validPort(s.Port) {
		s.Port = config.DefaultPort
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = config.DefaultSummaryTimeout + replySlack
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the base URL clients use to reach the draft API.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}
