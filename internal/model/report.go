package model

// PlatformCount pairs a distinct platform value with its occurrence count.
type PlatformCount struct {
	Value string
	Count int
}

// PlatformReport is the outcome of a read-only scan of the query tree.
// Counts is ordered by descending frequency; Invalid is the subset whose
// token set is not fully contained in AllowedPlatforms, same ordering.
type PlatformReport struct {
	FilesScanned int
	Counts       []PlatformCount
	Invalid      []PlatformCount
}

// FixResult records the effect of applying one rewrite rule.
type FixResult struct {
	Rule         RewriteRule
	FilesChanged int
	LinesChanged int
}

// IntervalFix records a string interval coerced to an integer.
type IntervalFix struct {
	Ref QueryRef
	Old string
	New int
}

// LintReport collects the findings of a lint pass over the query tree.
type LintReport struct {
	FilesScanned  int
	YaraQueries   []QueryRef
	MissingSQL    []QueryRef
	IntervalFixes []IntervalFix
	FilesModified int
	FilesDeleted  int
}

// DedupeDecision describes what dedupe decided for one duplicated query name.
type DedupeDecision struct {
	Name     string
	Keep     QueryRef
	Remove   []QueryRef
	Distinct []QueryRef // same name but SQL below the similarity threshold
}

// DedupeReport collects the outcome of a dedupe pass.
type DedupeReport struct {
	FilesScanned  int
	Decisions     []DedupeDecision
	Removed       int
	FilesModified int
	FilesDeleted  int
}

// ConvertReport collects the outcome of a legacy-format conversion pass.
type ConvertReport struct {
	FilesScanned   int
	FilesConverted []Path
	QueriesKept    int
}

// PathsListing groups query file paths by the device type segment of their
// path (both/devices/servers). Paths are written the way the consuming
// config files reference them: Both entries relative to the repo root
// ("lib/..."), Devices and Servers entries relative to the teams directory
// ("../lib/...").
type PathsListing struct {
	Both    []Path
	Devices []Path
	Servers []Path
}

// PathsUpdateReport records the outcome of rewriting the config files'
// queries sections from a fresh path listing.
type PathsUpdateReport struct {
	Listing      PathsListing
	FilesUpdated []Path
	FilesSkipped []Path // optional team configs absent from the tree
}
