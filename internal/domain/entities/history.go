package entities

import "time"

// HistoryRecord is one stored evaluation of an outdated dependency.
type HistoryRecord struct {
	RunAt          time.Time
	Repository     string
	Manifest       string
	Ecosystem      string
	Dependency     string
	CurrentVersion string
	LatestVersion  string
	Tier           string
	Verdict        string
	Approved       bool
	Outcome        string
	PullRequestURL string
	DryRun         bool
}
