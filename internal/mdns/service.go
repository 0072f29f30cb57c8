// Package mdns provides mDNS/Zeroconf service advertisement for BookHive server discovery.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

const (
	// ServiceType is the mDNS service type for BookHive servers.
	ServiceType = "_bookhive._tcp"

	// APIVersion is the current API version advertised in TXT records.
	APIVersion = "v1"

	// ServerVersion is the current server version advertised in TXT records.
	ServerVersion = "1.0.0"
)

// Service manages mDNS advertisement for the BookHive server via the
// local Avahi daemon. It allows local network discovery of the server
// without manual configuration.
type Service struct {
	server *avahi.Server
	group  *avahi.EntryGroup
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising the server via mDNS. It should be called
// after the HTTP server is running.
//
// Errors are typically non-fatal (no Avahi daemon, no D-Bus socket in
// containers).
func (s *Service) Start(instance *domain.Instance, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop existing advertisement if running (for restart scenarios)
	s.stopLocked()

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect to system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return fmt.Errorf("connect to avahi daemon: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		return fmt.Errorf("create entry group: %w", err)
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "bookhive-server"
	}

	txtRecords := [][]byte{
		fmt.Appendf(nil, "id=%s", instance.ID),
		fmt.Appendf(nil, "name=%s", instance.Name),
		fmt.Appendf(nil, "version=%s", ServerVersion),
		fmt.Appendf(nil, "api=%s", APIVersion),
	}

	// Only include remote URL if configured
	if instance.RemoteURL != "" {
		txtRecords = append(txtRecords, fmt.Appendf(nil, "remote=%s", instance.RemoteURL))
	}

	err = group.AddService(
		avahi.InterfaceUnspec, // All interfaces
		avahi.ProtoUnspec,     // IPv4 and IPv6
		0,                     // Flags
		host,                  // Instance name (hostname)
		ServiceType,           // Service type (_bookhive._tcp)
		"local",               // Domain
		"",                    // Host (empty = daemon's hostname)
		uint16(port),
		txtRecords,
	)
	if err != nil {
		server.Close()
		return fmt.Errorf("add mDNS service: %w", err)
	}

	if err := group.Commit(); err != nil {
		server.Close()
		return fmt.Errorf("commit mDNS entry group: %w", err)
	}

	s.server = server
	s.group = group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", instance.Name,
		"id", instance.ID,
	)

	return nil
}

// Stop stops mDNS advertising.
// Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopLocked() {
		s.logger.Info("mDNS advertisement stopped")
	}
}

func (s *Service) stopLocked() bool {
	if s.server == nil {
		return false
	}
	if s.group != nil {
		_ = s.group.Reset()
		s.group = nil
	}
	s.server.Close()
	s.server = nil
	return true
}
