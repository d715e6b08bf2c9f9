package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lddtopo/internal/data/history"
)

// RunPoint is one recorded run with its change against the previous run of
// the same library.
type RunPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	RunID         string    `json:"run_id"`
	Library       string    `json:"library"`
	Status        string    `json:"status"`
	CycleNode     string    `json:"cycle_node,omitempty"`
	Vertices      int       `json:"vertices"`
	Edges         int       `json:"edges"`
	Dangling      int       `json:"dangling"`
	DurationMS    float64   `json:"duration_ms"`
	DeltaVertices int       `json:"delta_vertices"`
	DeltaEdges    int       `json:"delta_edges"`
}

// Trend turns runs, oldest first, into points. Deltas are taken against the
// previous run of the same library and are zero for its first run.
func Trend(runs []history.Run) []RunPoint {
	points := make([]RunPoint, 0, len(runs))
	last := make(map[string]history.Run)
	for _, run := range runs {
		p := RunPoint{
			Timestamp:  run.Timestamp.UTC(),
			RunID:      run.ID,
			Library:    run.Library,
			Status:     run.Status,
			CycleNode:  run.CycleNode,
			Vertices:   run.Vertices,
			Edges:      run.Edges,
			Dangling:   run.Dangling,
			DurationMS: float64(run.Duration.Microseconds()) / 1000,
		}
		if prev, ok := last[run.Library]; ok {
			p.DeltaVertices = run.Vertices - prev.Vertices
			p.DeltaEdges = run.Edges - prev.Edges
		}
		last[run.Library] = run
		points = append(points, p)
	}
	return points
}

func RenderTrendTSV(runs []history.Run) []byte {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRunID\tLibrary\tStatus\tCycleNode\tVertices\tEdges\tDangling\tDurationMS\tDeltaVertices\tDeltaEdges\n")
	for _, p := range Trend(runs) {
		cycleNode := p.CycleNode
		if cycleNode == "" {
			cycleNode = "-"
		}
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.3f\t%+d\t%+d\n",
			p.Timestamp.Format(time.RFC3339),
			p.RunID,
			p.Library,
			p.Status,
			cycleNode,
			p.Vertices,
			p.Edges,
			p.Dangling,
			p.DurationMS,
			p.DeltaVertices,
			p.DeltaEdges,
		))
	}

	return []byte(buf.String())
}

func RenderTrendJSON(runs []history.Run) ([]byte, error) {
	return json.MarshalIndent(Trend(runs), "", "  ")
}
