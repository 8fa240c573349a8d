package hue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amimof/huego"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
)

// bridge error type for a pairing attempt made before the link button was pressed
const linkButtonNotPressed = 101

// Onboarding finds bridges and pairs with them when setting up a new install. It works against
// any bridge address, not just the configured one.
type Onboarding struct {
	logger   *log.Logger
	discover func(ctx context.Context) ([]huego.Bridge, error)
}

// NewOnboarding takes the discovery lookup, huego.DiscoverAllContext outside of tests
func NewOnboarding(logger *log.Logger, discover func(ctx context.Context) ([]huego.Bridge, error)) *Onboarding {
	return &Onboarding{logger: logger, discover: discover}
}

// DiscoverBridges asks the discovery service for the bridges on the local network
func (o *Onboarding) DiscoverBridges(ctx context.Context) ([]models.DiscoveredBridge, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DiscoveryTimeout)
	defer cancel()

	bridges, err := o.discover(ctx)
	if err != nil {
		return nil, classify(http.MethodGet, "discovery", err)
	}

	o.logger.Info("Bridge discovery finished", "found", len(bridges))
	return lo.Map(bridges, func(b huego.Bridge, _ int) models.DiscoveredBridge {
		return models.DiscoveredBridge{ID: b.ID, InternalIPAddress: b.Host}
	}), nil
}

// GenerateKey registers a new api user on the bridge. The link button has to be pressed first.
func (o *Onboarding) GenerateKey(ctx context.Context, bridgeIP string) (string, error) {
	if strings.TrimSpace(bridgeIP) == "" {
		return "", fmt.Errorf("%w: bridge_ip is required", models.ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.BridgeTimeout)
	defer cancel()

	username, err := huego.New(bridgeIP, "").CreateUserContext(ctx, constants.OnboardingDeviceType)
	if err != nil {
		var apiErr *huego.APIError
		if errors.As(err, &apiErr) && apiErr.Type == linkButtonNotPressed {
			return "", fmt.Errorf("press the link button on the bridge and try again: %w", models.ErrLinkButtonNotPressed)
		}
		return "", classify(http.MethodPost, "api", err)
	}

	o.logger.Info("Created bridge user", "bridge", bridgeIP)
	return username, nil
}

// TestConnection checks the credentials by reading the lights, returning how many there are
func (o *Onboarding) TestConnection(ctx context.Context, bridgeIP string, username string) (int, error) {
	if strings.TrimSpace(bridgeIP) == "" || strings.TrimSpace(username) == "" {
		return 0, fmt.Errorf("%w: bridge_ip and username are required", models.ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.BridgeTimeout)
	defer cancel()

	lights, err := huego.New(bridgeIP, username).GetLightsContext(ctx)
	if err != nil {
		return 0, classify(http.MethodGet, "lights", err)
	}
	return len(lights), nil
}
