package history

import "time"

const SchemaVersion = 1

const (
	StatusSorted = "sorted"
	StatusCycle  = "cycle"
)

// Run is one recorded analysis of a library.
type Run struct {
	ID          string
	Library     string
	LibraryPath string
	TreePath    string
	Timestamp   time.Time
	Status      string
	CycleNode   string
	Vertices    int
	Edges       int
	Dangling    int
	Duration    time.Duration
	Order       []OrderEntry
}

// OrderEntry is one library of a recorded load plan.
type OrderEntry struct {
	Position int
	Name     string
	Path     string
}
