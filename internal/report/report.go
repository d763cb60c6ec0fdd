package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"

	"ideprojects/internal/aggregate"
	"ideprojects/internal/config"
)

const timeLayout = "2006-01-02 15:04:05"

// Renderer writes the text report.
type Renderer struct {
	colorMode    string
	summaryTable bool
}

// New builds a renderer from the report section of cfg.
func New(cfg *config.Config) *Renderer {
	r := &Renderer{colorMode: config.ColorAuto, summaryTable: true}
	if cfg != nil {
		r.colorMode = cfg.ColorMode()
		r.summaryTable = cfg.Report.SummaryTable
	}
	return r
}

// Render writes the grouped section, the global section, the optional
// summary table, and the total footer.
func (rr *Renderer) Render(w io.Writer, groups []aggregate.Group, global []aggregate.Entry) error {
	bw := bufio.NewWriter(w)
	r := &renderer{w: bw, colorize: ShouldColorize(rr.colorMode, w)}

	r.banner("JetBrains IDE Recent Projects")
	if len(global) == 0 {
		r.line("")
		r.line("No projects found.")
	}
	for _, g := range groups {
		r.line("")
		r.banner("  " + g.Key)
		for i, e := range g.Entries {
			r.line("")
			r.line(fmt.Sprintf("[%d] %s", i+1, e.Record.Label()))
			r.details(e, false)
		}
	}

	if len(global) > 0 {
		r.line("")
		r.banner("All Projects (sorted by last activation)")
		for i, e := range global {
			r.line("")
			r.line(fmt.Sprintf("[%d] %s %s", i+1, r.glyph(e.Exists), e.Record.Label()))
			r.details(e, true)
		}
	}

	if rr.summaryTable && len(groups) > 0 {
		r.line("")
		r.line(Summary(groups))
	}

	r.line("")
	r.line(rule())
	r.line(fmt.Sprintf("Total projects found: %d", len(global)))
	r.line(rule())

	return bw.Flush()
}

// Summary renders one table row per source with project and on-disk counts.
func Summary(groups []aggregate.Group) string {
	headers := []string{"Source", "Projects", "On disk", "Last opened"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		existing := 0
		last := "-"
		for _, e := range g.Entries {
			if e.Exists {
				existing++
			}
			if e.Record.IsLastOpened && last == "-" {
				last = e.Record.Label()
			}
		}
		rows = append(rows, []string{
			g.Key,
			strconv.Itoa(len(g.Entries)),
			strconv.Itoa(existing),
			last,
		})
	}
	return Table(headers, rows, []Alignment{AlignLeft, AlignRight, AlignRight, AlignLeft})
}

type renderer struct {
	w        *bufio.Writer
	colorize bool
}

func (r *renderer) line(s string) {
	r.w.WriteString(s)
	r.w.WriteByte('\n')
}

func (r *renderer) banner(title string) {
	r.line(paint(rule(), ansiBlue, r.colorize))
	r.line(paint(title, ansiBlue, r.colorize))
	r.line(paint(rule(), ansiBlue, r.colorize))
}

func (r *renderer) field(label, value string) {
	r.line(fmt.Sprintf("%s%s: %s", fieldIndent, label, value))
}

func (r *renderer) details(e aggregate.Entry, withSource bool) {
	rec := e.Record
	if withSource {
		r.field("IDE", rec.SourceKey())
	}
	r.field("Path", rec.Path)
	r.field("Display name", optional(rec.DisplayName))
	r.field("Frame", optional(rec.FrameTitle))
	r.field("Last activated", formatTime(rec.ActivationTime()))
	r.field("Opened at", formatTime(rec.OpenTime()))
	r.field("Build", optional(rec.BuildTag))
	r.field("Window", optional(rec.WindowGeometry))
	r.field("Color index", optional(rec.ColorIndex))
	r.field("Last opened", yesNo(rec.IsLastOpened))
	if !withSource {
		r.field("Status", r.status(e.Exists))
	}
}

func (r *renderer) glyph(exists bool) string {
	if exists {
		return paint(existsGlyph, ansiGreen, r.colorize)
	}
	return paint(missingMark, ansiRed, r.colorize)
}

func (r *renderer) status(exists bool) string {
	if exists {
		return r.glyph(true) + " Exists"
	}
	return r.glyph(false) + " Not found"
}

func optional(value *string) string {
	if value == nil {
		return absentValue
	}
	return *value
}

// FormatMillis renders an optional epoch-millisecond timestamp in local time.
func FormatMillis(ms *int64) string {
	if ms == nil {
		return absentValue
	}
	return formatTime(time.UnixMilli(*ms).In(time.Local), true)
}

// Glyph returns the uncoloured existence marker.
func Glyph(exists bool) string {
	if exists {
		return existsGlyph
	}
	return missingMark
}

func formatTime(ts time.Time, ok bool) string {
	if !ok {
		return absentValue
	}
	return ts.Format(timeLayout)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
