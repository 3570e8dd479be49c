package discovery

import (
	"fmt"
	"strings"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/logging"
)

const (
	// ServiceType is the service hub controllers browse for when scanning
	// the network for native-API devices.
	ServiceType = "_esphomelib._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// The satellite runs on a general-purpose host, not a microcontroller,
	// and says so in its TXT records.
	txtPlatform = "HOST"
	txtBoard    = "host"
)

// Identity is the device identity carried in the advertisement.
type Identity struct {
	// Name is the service instance name; hubs display it during adoption.
	Name string

	// FriendlyName is the human-readable device name.
	FriendlyName string

	// MAC is the colon-separated device mac; advertised bare, per the
	// device firmware convention.
	MAC string

	// Version is the firmware version the satellite reports.
	Version string

	Project        string
	ProjectVersion string
}

// Advertiser is a live mDNS registration for the device link.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the device link on the local network. The
// advertisement is best-effort: callers log a failure and move on, since
// hubs configured with an explicit host never need it.
func Advertise(identity Identity, port int) (*Advertiser, error) {
	server, err := zeroconf.Register(identity.Name, ServiceType, ServiceDomain, port, txtRecords(identity), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising device link over mDNS",
		zap.String("instance", identity.Name),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the advertisement. Safe on a nil receiver so callers
// can defer it unconditionally.
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Debug("Withdrew mDNS advertisement")
}

// txtRecords builds the key=value TXT set hubs parse during adoption.
func txtRecords(identity Identity) []string {
	return []string{
		"version=" + identity.Version,
		"mac=" + strings.ToLower(strings.ReplaceAll(identity.MAC, ":", "")),
		"platform=" + txtPlatform,
		"board=" + txtBoard,
		"network=ethernet",
		"friendly_name=" + identity.FriendlyName,
		"project_name=" + identity.Project,
		"project_version=" + identity.ProjectVersion,
	}
}
