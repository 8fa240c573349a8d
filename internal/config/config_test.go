package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/config"
)

func Test_Load(t *testing.T) {

	t.Run("should read values from the environment and apply defaults", func(t *testing.T) {
		// arrange
		t.Setenv("HUE_BRIDGE_IP", "192.168.2.35")
		t.Setenv("HUE_USERNAME", "abc123")
		t.Setenv("DB_POOL_SIZE", "3")
		t.Setenv("DEBUG", "true")

		// act
		cfg, err := config.Load(viper.New())

		// assert
		require.NoError(t, err)
		assert.Equal(t, "192.168.2.35", cfg.BridgeIP)
		assert.Equal(t, "abc123", cfg.HueUsername)
		assert.Equal(t, 5000, cfg.Port)
		assert.True(t, cfg.Debug)
		assert.Equal(t, "sqlite3", cfg.DB.Driver)
		assert.Equal(t, "hue_monitoring", cfg.DB.Name)
		assert.Equal(t, 3, cfg.DB.PoolSize)
		assert.Equal(t, ":5000", cfg.ListenAddr())
		assert.True(t, cfg.BridgeEvents)
		assert.Equal(t, 0.30, cfg.EnergyPrice)
	})

	t.Run("should reject a negative energy price", func(t *testing.T) {
		// arrange
		t.Setenv("HUE_BRIDGE_IP", "bridge")
		t.Setenv("HUE_USERNAME", "user")
		t.Setenv("ENERGY_PRICE", "-0.1")

		// act
		_, err := config.Load(viper.New())

		// assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ENERGY_PRICE")
	})

	t.Run("should fail when the bridge settings are missing", func(t *testing.T) {
		// arrange
		t.Setenv("HUE_BRIDGE_IP", "")
		t.Setenv("HUE_USERNAME", "")

		// act
		_, err := config.Load(viper.New())

		// assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HUE_BRIDGE_IP")
		assert.Contains(t, err.Error(), "HUE_USERNAME")
	})

	t.Run("should reject an unknown database driver", func(t *testing.T) {
		// arrange
		t.Setenv("HUE_BRIDGE_IP", "bridge")
		t.Setenv("HUE_USERNAME", "user")
		t.Setenv("DB_DRIVER", "postgres")

		// act
		_, err := config.Load(viper.New())

		// assert
		assert.ErrorContains(t, err, "DB_DRIVER")
	})
}

func Test_LatLng(t *testing.T) {
	tests := []struct {
		name    string
		geo     string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "valid", geo: "51.5,-0.12", lat: 51.5, lng: -0.12},
		{name: "with spaces", geo: " 48.1 , 11.6 ", lat: 48.1, lng: 11.6},
		{name: "missing lng", geo: "48.1", wantErr: true},
		{name: "not a number", geo: "north,south", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := config.Config{GeoLocation: test.geo}
			lat, lng, err := cfg.LatLng()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.lat, lat)
			assert.Equal(t, test.lng, lng)
		})
	}
}
