package testsupport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Frame is a window geometry fixture. Nil fields are omitted from the markup.
type Frame struct {
	X, Y, Width, Height *int
}

// FullFrame returns a frame with all four attributes.
func FullFrame(x, y, width, height int) *Frame {
	return &Frame{X: &x, Y: &y, Width: &width, Height: &height}
}

// Project describes one entry of a recent-projects store fixture.
type Project struct {
	Key         string
	NoMeta      bool
	DisplayName string
	FrameTitle  string
	Activation  int64
	Opened      int64
	Build       string
	Color       string
	Frame       *Frame
	Options     map[string]string
}

// Store renders a recent-projects document with one RecentProjectsManager
// component. An empty lastOpened omits the designator option.
func Store(component, lastOpened string, projects ...Project) string {
	var b strings.Builder
	b.WriteString("<application>\n")
	fmt.Fprintf(&b, "  <component name=%s>\n", quote(component))
	b.WriteString("    <option name=\"additionalInfo\">\n      <map>\n")
	for _, p := range projects {
		writeEntry(&b, p)
	}
	b.WriteString("      </map>\n    </option>\n")
	if lastOpened != "" {
		fmt.Fprintf(&b, "    <option name=\"lastOpenedProject\" value=%s />\n", quote(lastOpened))
	}
	b.WriteString("  </component>\n</application>\n")
	return b.String()
}

func writeEntry(b *strings.Builder, p Project) {
	if p.NoMeta {
		fmt.Fprintf(b, "        <entry key=%s />\n", quote(p.Key))
		return
	}
	fmt.Fprintf(b, "        <entry key=%s>\n          <value>\n", quote(p.Key))
	b.WriteString("            <RecentProjectMetaInfo")
	if p.DisplayName != "" {
		fmt.Fprintf(b, " displayName=%s", quote(p.DisplayName))
	}
	if p.FrameTitle != "" {
		fmt.Fprintf(b, " frameTitle=%s", quote(p.FrameTitle))
	}
	b.WriteString(">\n")

	options := map[string]string{}
	for k, v := range p.Options {
		options[k] = v
	}
	if p.Activation != 0 {
		options["activationTimestamp"] = fmt.Sprint(p.Activation)
	}
	if p.Opened != 0 {
		options["projectOpenTimestamp"] = fmt.Sprint(p.Opened)
	}
	if p.Build != "" {
		options["build"] = p.Build
	}
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "              <option name=%s value=%s />\n", quote(name), quote(options[name]))
	}

	if p.Frame != nil {
		b.WriteString("              <frame")
		writeIntAttr(b, "x", p.Frame.X)
		writeIntAttr(b, "y", p.Frame.Y)
		writeIntAttr(b, "width", p.Frame.Width)
		writeIntAttr(b, "height", p.Frame.Height)
		b.WriteString(" />\n")
	}
	if p.Color != "" {
		fmt.Fprintf(b, "              <RecentProjectColorInfo associatedIndex=%s />\n", quote(p.Color))
	}
	b.WriteString("            </RecentProjectMetaInfo>\n          </value>\n        </entry>\n")
}

func writeIntAttr(b *strings.Builder, name string, value *int) {
	if value != nil {
		fmt.Fprintf(b, " %s=\"%d\"", name, *value)
	}
}

func quote(value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return `"` + buf.String() + `"`
}

// WriteStore writes body to <root>/<ideDir>/options/<fileName> and returns the path.
func WriteStore(t testing.TB, root, ideDir, fileName, body string) string {
	t.Helper()

	path := filepath.Join(root, ideDir, "options", fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MkdirProject creates a project directory so existence probes succeed.
func MkdirProject(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir project %s: %v", path, err)
	}
}
