package model

import (
	"encoding/json"
	"fmt"
)

// ReviewState represents the state of a review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStatePending          ReviewState = "pending"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// UnmarshalJSON maps a review-state wire value onto its canonical constant.
// The REST API reports states in upper case ("APPROVED") while webhook
// payloads use lower case ("approved"); exactly those two spellings per
// state are accepted, and anything else, mixed-case included, is an error.
func (s *ReviewState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "APPROVED", "approved":
		*s = ReviewStateApproved
	case "CHANGES_REQUESTED", "changes_requested":
		*s = ReviewStateChangesRequested
	case "COMMENTED", "commented":
		*s = ReviewStateCommented
	case "PENDING", "pending":
		*s = ReviewStatePending
	case "DISMISSED", "dismissed":
		*s = ReviewStateDismissed
	default:
		return fmt.Errorf("unknown review state %q", raw)
	}
	return nil
}
