// Package scoring converts raw lead records into a deterministic 0-100
// quality score. Scoring is pure: equal input always yields equal output,
// with no clock or storage access, which is what makes repeated sync runs
// converge instead of drift.
package scoring

import (
	"adpulse_backend/internal/leads/repository"
)

// Score computes the quality score for a lead. The result is always in
// [0, 100]: every pool contributes non-negative points and the sum is
// clamped at the top.
func Score(lead repository.Lead) int {
	total := SourcePoints(lead.Source)
	total += contactPoints(lead)
	total += attributionPoints(lead)
	total += StagePoints(lead.Stage)

	if total > maxScore {
		return maxScore
	}
	return total
}

// contactPoints rewards contact completeness: reachable leads are worth more.
func contactPoints(lead repository.Lead) int {
	points := 0
	if lead.Email != nil && *lead.Email != "" {
		points += emailPoints
	}
	if lead.Phone != nil && *lead.Phone != "" {
		points += phonePoints
	}
	return points
}

// attributionPoints rewards attribution signal. The pool can exceed its
// nominal 20-point budget when every marker is present; the total clamp
// in Score absorbs that.
func attributionPoints(lead repository.Lead) int {
	points := 0
	if len(lead.UTM) > 0 {
		points += utmPoints
	}
	if lead.GCLID != nil && *lead.GCLID != "" {
		points += gclidPoints
	}
	if lead.FBCLID != nil && *lead.FBCLID != "" {
		points += fbclidPoints
	}
	if lead.Referrer != nil && *lead.Referrer != "" {
		points += referrerPoints
	}
	return points
}
