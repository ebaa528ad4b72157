// Package model defines the data structures shared across the queryfix layers.
package model

// Path represents a file system path.
type Path string

// PlatformKey is the YAML key whose values the normalizer inspects and rewrites.
const PlatformKey = "platform"

// AllowedPlatforms is the canonical set of agent platform tokens. A platform
// value is valid only when every token of its comma-separated list is a member.
var AllowedPlatforms = map[string]struct{}{
	"darwin":  {},
	"linux":   {},
	"windows": {},
	"chrome":  {},
}

// RewriteRule maps one whole platform value to its replacement. The old value
// is matched against the full value after the key, never against substrings.
type RewriteRule struct {
	Old string
	New string
}

// DefaultRewriteRules is the fixed normalization table applied by fix-all.
// The table is the one judgment call that requires operator input: new invalid
// values discovered by report are added here by hand.
var DefaultRewriteRules = []RewriteRule{
	{Old: "posix", New: "darwin, linux"},
	{Old: "gentoo", New: "linux"},
	{Old: "macos", New: "darwin"},
	{Old: "all", New: "darwin, linux, windows"},
}

// QueryRef identifies a single query document inside a query file.
type QueryRef struct {
	File  Path
	Index int
	Name  string
}

// QueryFields lists the keys kept when converting legacy fleetctl documents
// to the GitOps list format.
var QueryFields = []string{
	"name",
	"description",
	"query",
	"platform",
	"interval",
	"observer_can_run",
	"automations_enabled",
	"logging",
	"min_osquery_version",
	"discard_data",
}
