package history

import "time"

// Run summarizes one stored scan.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Mode        string
	Roots       []string
	ExportPath  string
	SourceFiles int
	Failures    int
	Projects    int
	Existing    int
}

// Project is one stored record of a run, in global recency order.
type Project struct {
	Position            int
	Family              string
	Version             string
	Path                string
	DisplayName         *string
	ActivationTimestamp *int64
	IsLastOpened        bool
	Exists              bool
	SourceFile          string
}

// SourceKey mirrors project.Record.SourceKey for stored rows.
func (p Project) SourceKey() string {
	return p.Family + " " + p.Version
}

// Run modes recorded alongside each snapshot.
const (
	ModeInteractive = "interactive"
	ModeSilent      = "silent"
	ModeReport      = "report"
	ModeExport      = "export"
)
