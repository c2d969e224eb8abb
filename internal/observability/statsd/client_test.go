package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUDPSink opens a local UDP listener and returns its address plus a
// function that reads the next datagram.
func newUDPSink(t *testing.T) (string, func() string) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	read := func() string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		buf := make([]byte, 1024)
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}
	return conn.LocalAddr().String(), read
}

func TestClientEmitsCount(t *testing.T) {
	addr, read := newUDPSink(t)
	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "storewatch"})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	client.Count("report.run", 1, map[string]string{"result": "success"})
	assert.Equal(t, "storewatch.report.run:1|c|#result:success", read())
}

func TestClientEmitsGaugeAndTiming(t *testing.T) {
	addr, read := newUDPSink(t)
	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Gauge("stores.total", 42, nil)
	assert.Equal(t, "stores.total:42|g", read())

	client.Timing("report.duration", 1500*time.Millisecond, nil)
	assert.Equal(t, "report.duration:1500|ms", read())
}

func TestClientMergesGlobalTags(t *testing.T) {
	addr, read := newUDPSink(t)
	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"env": "test", "result": "global"},
	})
	require.NoError(t, err)
	defer client.Close()

	// Local tags override global ones, keys come out sorted.
	client.Count("report.run", 1, map[string]string{"result": "error"})
	assert.Equal(t, "report.run:1|c|#env:test,result:error", read())
}

func TestClientSanitisesMetricNames(t *testing.T) {
	addr, read := newUDPSink(t)
	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: ".storewatch."})
	require.NoError(t, err)
	defer client.Close()

	client.Count("ingest/rows loaded", 7, nil)
	assert.Equal(t, "storewatch.ingest_rows_loaded:7|c", read())
}

func TestClientDisabled(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// No connection exists; emitting must be a no-op, not a panic.
	client.Count("report.run", 1, nil)
	require.NoError(t, client.Close())
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	client.Count("report.run", 1, nil)
	client.Gauge("stores.total", 1, nil)
	client.Timing("report.duration", time.Second, nil)
	require.NoError(t, client.Close())
}
