package config

const (
	defaultConfigPath     = "~/.config/ideprojects/config.toml"
	projectConfigName     = "ideprojects.toml"
	defaultExportPath     = "jetbrains_projects.json"
	defaultHistoryPath    = "~/.local/share/ideprojects/history.db"
	defaultHistoryKeep    = 50
	defaultReportColor    = ColorAuto
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultJetBrainsRoot  = "~/.config/JetBrains"
	defaultGoogleIDERoot  = "~/.config/Google"
	defaultExportLock     = false
	defaultSummaryTable   = true
	defaultRecentProjects = "recentProjects.xml"
	defaultRecentSolution = "recentSolutions.xml"
)

// Report colour policies.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Roots:         []string{defaultJetBrainsRoot, defaultGoogleIDERoot},
			MetadataFiles: []string{defaultRecentProjects, defaultRecentSolution},
		},
		Export: Export{
			Path: defaultExportPath,
			Lock: defaultExportLock,
		},
		Report: Report{
			Color:        defaultReportColor,
			SummaryTable: defaultSummaryTable,
		},
		History: History{
			Path:     defaultHistoryPath,
			KeepRuns: defaultHistoryKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
