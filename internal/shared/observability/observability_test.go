package observability

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	GraphVertices.Set(7)
	path := filepath.Join(t.TempDir(), "lddtopo.prom")

	require.NoError(t, WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lddtopo_graph_vertices 7")
}

func TestRunsTotal(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues(OutcomeCycle))
	RunsTotal.WithLabelValues(OutcomeCycle).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues(OutcomeCycle)))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestServer(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"up"`)

	resp, err = http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "lddtopo_graph_edges"))
}
