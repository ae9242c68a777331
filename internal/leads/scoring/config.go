package scoring

import (
	"strings"

	"adpulse_backend/internal/leads/domain"
)

// The score is the sum of four independent point pools, clamped to
// maxScore. Pool sizes: source 0-30, contact completeness 0-25,
// attribution signal up to 33 before the clamp, stage 0-25.
const (
	maxScore = 100

	emailPoints = 15
	phonePoints = 10

	utmPoints      = 10
	gclidPoints    = 10
	fbclidPoints   = 8
	referrerPoints = 5

	// unknownSourcePoints is the floor for sources missing from the
	// table. An unrecognized channel still tells us the lead came from
	// somewhere, so it scores above zero.
	unknownSourcePoints = 5
)

// sourcePoints maps normalized channel keys to their point value.
// Lookups only hit this table after NormalizeSource; anything else falls
// back to unknownSourcePoints.
var sourcePoints = map[string]int{
	"google_ads":     30,
	"meta_ads":       28,
	"facebook_ads":   28,
	"linkedin_ads":   25,
	"referral":       25,
	"organic_search": 20,
	"website":        15,
	"social":         12,
	"email":          10,
	"direct":         8,
}

// stagePoints rewards pipeline progress. Lost leads score the same as
// fresh ones: stage says nothing about their quality anymore.
var stagePoints = map[string]int{
	domain.StageNew:       0,
	domain.StageContacted: 5,
	domain.StageBooked:    15,
	domain.StageQualified: 20,
	domain.StageWon:       25,
	domain.StageLost:      0,
}

// NormalizeSource lowercases the channel key and folds whitespace and
// hyphens to underscores, so "Google Ads" and "google-ads" resolve to the
// same table entry.
func NormalizeSource(source string) string {
	normalized := strings.ToLower(strings.TrimSpace(source))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}

// SourcePoints resolves the point value for a raw source string.
// Unknown sources are a typed fallback case, not a missing-key zero.
func SourcePoints(source string) int {
	if points, ok := sourcePoints[NormalizeSource(source)]; ok {
		return points
	}
	return unknownSourcePoints
}

// StagePoints resolves the point value for a pipeline stage.
// Unrecognized stages contribute nothing.
func StagePoints(stage string) int {
	return stagePoints[stage]
}
