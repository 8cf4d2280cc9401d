package influxdb_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/busylight-core/internal/infrastructure/config"
	"github.com/nerrad567/busylight-core/internal/infrastructure/influxdb"
)

// testConfig returns a configuration for a local dev InfluxDB.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "busylight-dev-token",
		Org:           "busylight",
		Bucket:        "activity",
		BatchSize:     100,
		FlushInterval: 1, // 1 second for faster test feedback
	}
}

// skipIfNoInfluxDB skips the test if InfluxDB is not running locally.
func skipIfNoInfluxDB(t *testing.T) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Skip("InfluxDB not available, skipping integration test")
	}
	return client
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	if err == nil {
		t.Fatal("Connect() should return error when disabled")
	}
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestWriteRuleInterval(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	end := time.Now().UnixMilli()
	start := end - 90_000
	client.WriteRuleInterval("rule-test", "camera busy", start, end)
	client.Flush()
}

func TestWriteSignalChange(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	client.WriteSignalChange("camera", true)
	client.WriteSignalChange("camera", false)
	client.Flush()
}
