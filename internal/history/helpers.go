package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
		rootsRaw    string
		exportPath  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.Mode,
		&rootsRaw,
		&exportPath,
		&run.SourceFiles,
		&run.Failures,
		&run.Projects,
		&run.Existing,
	); err != nil {
		return nil, err
	}
	run.ExportPath = exportPath.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := parseTimeString(finishedRaw); err == nil {
		run.FinishedAt = finished
	}
	if rootsRaw != "" {
		_ = json.Unmarshal([]byte(rootsRaw), &run.Roots)
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableStringPtr(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt64Ptr(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
