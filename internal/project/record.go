package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// UnknownVersion is used when a configuration directory name carries no
// recognizable version token.
const UnknownVersion = "Unknown"

// Record is a single recent-project entry discovered in one metadata file.
type Record struct {
	Family        string
	FamilyVersion string
	Path          string
	SourceFile    string

	DisplayName         *string
	FrameTitle          *string
	ActivationTimestamp *int64
	OpenTimestamp       *int64
	BuildTag            *string
	ColorIndex          *string
	WindowGeometry      *string

	// Extra holds option name/value pairs that have no dedicated field.
	Extra map[string]string

	IsLastOpened bool
}

// SourceKey returns the grouping key shared by every record of one
// family/version pair.
func (r Record) SourceKey() string {
	return r.Family + " " + r.FamilyVersion
}

// Label returns the display name, or the last path component when the source
// did not provide one.
func (r Record) Label() string {
	if r.DisplayName != nil && strings.TrimSpace(*r.DisplayName) != "" {
		return *r.DisplayName
	}
	return filepath.Base(r.Path)
}

// ActivationTime converts the activation timestamp to local time.
func (r Record) ActivationTime() (time.Time, bool) {
	return millisToLocal(r.ActivationTimestamp)
}

// OpenTime converts the open timestamp to local time.
func (r Record) OpenTime() (time.Time, bool) {
	return millisToLocal(r.OpenTimestamp)
}

func millisToLocal(ms *int64) (time.Time, bool) {
	if ms == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*ms).In(time.Local), true
}

// FormatGeometry composes the window summary stored in WindowGeometry.
func FormatGeometry(x, y, width, height string) string {
	return fmt.Sprintf("x=%s y=%s w=%s h=%s", x, y, width, height)
}

// ExpandHome replaces every home placeholder token in value with home.
func ExpandHome(value, home string) string {
	if home == "" {
		return value
	}
	for _, token := range HomePlaceholders {
		value = strings.ReplaceAll(value, token, home)
	}
	return value
}

// HomePlaceholders lists the tokens IDE stores use in place of the user's
// home directory.
var HomePlaceholders = []string{"$USER_HOME$", "$HOME$"}

// StringPtr returns a pointer to a copy of value.
func StringPtr(value string) *string {
	return &value
}

// Int64Ptr returns a pointer to a copy of value.
func Int64Ptr(value int64) *int64 {
	return &value
}
