package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, "http://localhost:5000", viper.GetString("api.serverUrl"))
	assert.Equal(t, "", viper.GetString("api.apiKey"))
	assert.Equal(t, "roundengine", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, 15, viper.GetInt("rules.maxExternalHeat"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 42)
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetRulesConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"rules": { "extendedHeat": true, "minefields": true, "maxExternalHeat": 20, "seed": 1234 }
	}`)))

	rc := GetRulesConfig()
	assert.True(t, rc.ExtendedHeat)
	assert.True(t, rc.Minefields)
	assert.False(t, rc.AssaultDrop)
	assert.Equal(t, 20, rc.MaxExternalHeat)
	assert.Equal(t, uint64(1234), rc.Seed)
}

func TestGetStorageConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
		want StorageConfig
	}{
		{
			name: "defaults",
			body: `{}`,
			want: StorageConfig{
				Type:      "memory",
				Memory:    MemoryConfig{OutputDir: "./games", CompressOutput: true},
				SQLite:    SQLiteConfig{OutputDir: "./games", DumpInterval: 3 * time.Minute},
				WebSocket: WebSocketConfig{URL: "ws://localhost:5000/api/v1/stream"},
			},
		},
		{
			name: "override",
			body: `{
				"storage": {
					"type": "sqlite",
					"memory": { "outputDir": "/tmp/out", "compressOutput": false },
					"sqlite": { "outputDir": "/tmp/db", "dumpInterval": "10m" },
					"websocket": { "url": "ws://web:5000/stream", "secret": "s3cret" }
				}
			}`,
			want: StorageConfig{
				Type:      "sqlite",
				Memory:    MemoryConfig{OutputDir: "/tmp/out"},
				SQLite:    SQLiteConfig{OutputDir: "/tmp/db", DumpInterval: 10 * time.Minute},
				WebSocket: WebSocketConfig{URL: "ws://web:5000/stream", Secret: "s3cret"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			require.NoError(t, Load(writeConfig(t, tt.body)))
			assert.Equal(t, tt.want, GetStorageConfig())
		})
	}
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{ "influx": { "enabled": true, "host": "influx", "token": "t" } }`)))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "http://influx:8086", ic.URL())
	assert.Equal(t, "t", ic.Token)
	assert.Equal(t, "heat", ic.Bucket)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "roundengine", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}
