package recent

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"ideprojects/internal/project"
)

// Store element and option names.
const (
	componentElement   = "component"
	metaInfoElement    = "RecentProjectMetaInfo"
	colorInfoElement   = "RecentProjectColorInfo"
	frameElement       = "frame"
	additionalInfoName = "additionalInfo"
	lastOpenedName     = "lastOpenedProject"

	optionActivationTimestamp = "activationTimestamp"
	optionOpenTimestamp       = "projectOpenTimestamp"
	optionBuild               = "build"
)

// SectionMarkers identify components that hold recent-project data. Matching
// is a case-insensitive substring test against the component name.
var SectionMarkers = []string{"RecentProject", "RecentSolution"}

var folder = cases.Fold()

// Options carries the provenance stamped onto every parsed record.
type Options struct {
	Family     string
	Version    string
	SourceFile string
	// Home replaces home placeholders in project paths. Empty disables
	// expansion.
	Home string
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, opts Options) ([]project.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if opts.SourceFile == "" {
		opts.SourceFile = path
	}
	records, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// Parse extracts every recent-project record from one store document. A
// document that cannot be decoded yields an error and no records; sections
// lacking the expected structure are skipped silently.
func Parse(r io.Reader, opts Options) ([]project.Record, error) {
	root, err := decodeTree(r)
	if err != nil {
		return nil, err
	}

	var (
		records     []project.Record
		designators []string
	)
	for _, component := range root.findAll(componentElement) {
		name, _ := component.attr("name")
		if !isRecentSection(name) {
			continue
		}
		records = append(records, parseSection(component, opts)...)
		if value, ok := lastOpenedValue(component); ok {
			designators = append(designators, value)
		}
	}
	markLastOpened(records, designators)
	return records, nil
}

func isRecentSection(name string) bool {
	folded := folder.String(name)
	for _, marker := range SectionMarkers {
		if strings.Contains(folded, folder.String(marker)) {
			return true
		}
	}
	return false
}

func parseSection(component *element, opts Options) []project.Record {
	entries := additionalInfoEntries(component)
	records := make([]project.Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, parseEntry(entry, opts))
	}
	return records
}

func additionalInfoEntries(component *element) []*element {
	var entries []*element
	component.descendants(func(e *element) bool {
		if !namedOption(additionalInfoName)(e) {
			return true
		}
		m := e.child("map")
		if m == nil {
			return true
		}
		entries = m.children("entry")
		return false
	})
	return entries
}

// lastOpenedValue returns the raw designator of a section. It is compared
// verbatim against expanded record paths.
func lastOpenedValue(component *element) (string, bool) {
	option := component.find(namedOption(lastOpenedName))
	if option == nil {
		return "", false
	}
	return option.attr("value")
}

// markLastOpened flags every record of the document whose path equals any
// section's designator.
func markLastOpened(records []project.Record, designators []string) {
	for i := range records {
		for _, d := range designators {
			if records[i].Path == d {
				records[i].IsLastOpened = true
				break
			}
		}
	}
}

func parseEntry(entry *element, opts Options) project.Record {
	key, _ := entry.attr("key")
	rec := project.Record{
		Family:        opts.Family,
		FamilyVersion: opts.Version,
		Path:          project.ExpandHome(key, opts.Home),
		SourceFile:    opts.SourceFile,
	}

	meta := entry.find(named(metaInfoElement))
	if meta == nil {
		return rec
	}

	if v, ok := meta.attr("displayName"); ok {
		rec.DisplayName = project.StringPtr(v)
	}
	if v, ok := meta.attr("frameTitle"); ok {
		rec.FrameTitle = project.StringPtr(v)
	}

	for _, option := range meta.children("option") {
		name, _ := option.attr("name")
		value, _ := option.attr("value")
		if name == "" || value == "" {
			continue
		}
		applyOption(&rec, name, value)
	}

	if color := meta.find(named(colorInfoElement)); color != nil {
		if v, ok := color.attr("associatedIndex"); ok {
			rec.ColorIndex = project.StringPtr(v)
		}
	}

	if frame := meta.child(frameElement); frame != nil {
		rec.WindowGeometry = geometry(frame)
	}

	return rec
}

func applyOption(rec *project.Record, name, value string) {
	switch name {
	case optionActivationTimestamp:
		if ts, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			rec.ActivationTimestamp = project.Int64Ptr(ts)
			return
		}
	case optionOpenTimestamp:
		if ts, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			rec.OpenTimestamp = project.Int64Ptr(ts)
			return
		}
	case optionBuild:
		rec.BuildTag = project.StringPtr(value)
		return
	}
	if rec.Extra == nil {
		rec.Extra = make(map[string]string)
	}
	rec.Extra[name] = value
}

// geometry is nil unless all four frame attributes are present.
func geometry(frame *element) *string {
	x, okX := frame.attr("x")
	y, okY := frame.attr("y")
	w, okW := frame.attr("width")
	h, okH := frame.attr("height")
	if !okX || !okY || !okW || !okH {
		return nil
	}
	return project.StringPtr(project.FormatGeometry(x, y, w, h))
}
