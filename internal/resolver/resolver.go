package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"ideprojects/internal/project"
)

// OptionsDir is the per-version subdirectory that holds metadata files.
const OptionsDir = "options"

// DefaultMetadataFiles are the file names probed inside each options directory.
var DefaultMetadataFiles = []string{"recentProjects.xml", "recentSolutions.xml"}

// ErrRootNotFound reports that a configuration root does not exist.
var ErrRootNotFound = errors.New("configuration root not found")

var dirNamePattern = regexp.MustCompile(`^([A-Za-z]+)(\d+\.\d+(?:\.\d+)?)`)

// Source is one metadata file together with its provenance.
type Source struct {
	Root    string
	Dir     string
	File    string
	Family  string
	Version string
}

// ParseDirName splits a configuration directory name into family and version.
// Names without a version token yield the full name and project.UnknownVersion.
func ParseDirName(name string) (family, version string) {
	match := dirNamePattern.FindStringSubmatch(name)
	if match == nil {
		return name, project.UnknownVersion
	}
	return match[1], match[2]
}

// Resolve lists every existing metadata file under root. Subdirectories are
// visited in name order and files in the order given by fileNames.
func Resolve(root string, fileNames []string) ([]Source, error) {
	if len(fileNames) == 0 {
		fileNames = DefaultMetadataFiles
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root %s: %w", root, err)
	}

	var sources []Source
	for _, entry := range entries {
		if !isDirOrSymlink(entry, root) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		family, version := ParseDirName(entry.Name())
		for _, name := range fileNames {
			candidate := filepath.Join(dir, OptionsDir, name)
			if !isRegularFile(candidate) {
				continue
			}
			sources = append(sources, Source{
				Root:    root,
				Dir:     dir,
				File:    candidate,
				Family:  family,
				Version: version,
			})
		}
	}
	return sources, nil
}

func isDirOrSymlink(entry os.DirEntry, parent string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
