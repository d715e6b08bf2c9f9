package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"lddtopo/internal/data/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []history.Run {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []history.Run{
		{ID: "r1", Library: "libapp.so", Timestamp: base, Status: history.StatusSorted, Vertices: 4, Edges: 3, Duration: 1500 * time.Microsecond},
		{ID: "r2", Library: "libother.so", Timestamp: base.Add(time.Minute), Status: history.StatusSorted, Vertices: 2, Edges: 1},
		{ID: "r3", Library: "libapp.so", Timestamp: base.Add(time.Hour), Status: history.StatusCycle, CycleNode: "libx.so", Vertices: 6, Edges: 7},
	}
}

func TestTrend(t *testing.T) {
	points := Trend(sampleRuns())
	require.Len(t, points, 3)

	assert.Zero(t, points[0].DeltaVertices)
	assert.Zero(t, points[1].DeltaVertices, "first run of another library has no baseline")
	assert.Equal(t, 2, points[2].DeltaVertices)
	assert.Equal(t, 4, points[2].DeltaEdges)
	assert.Equal(t, 1.5, points[0].DurationMS)
}

func TestRenderTrendTSV(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(string(RenderTrendTSV(sampleRuns()))), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Timestamp\tRunID\tLibrary"))
	assert.Equal(t, "2026-03-01T12:00:00Z\tr1\tlibapp.so\tsorted\t-\t4\t3\t0\t1.500\t+0\t+0", lines[1])
	assert.Contains(t, lines[3], "\tcycle\tlibx.so\t")
	assert.True(t, strings.HasSuffix(lines[3], "\t+2\t+4"))
}

func TestRenderTrendJSON(t *testing.T) {
	data, err := RenderTrendJSON(sampleRuns())
	require.NoError(t, err)

	var points []map[string]any
	require.NoError(t, json.Unmarshal(data, &points))
	require.Len(t, points, 3)
	assert.Equal(t, "libx.so", points[2]["cycle_node"])
	_, hasCycle := points[0]["cycle_node"]
	assert.False(t, hasCycle)

	empty, err := RenderTrendJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}
