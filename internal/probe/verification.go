package probe

import (
	"fmt"
	"math"
	"strings"
)

// fallbackConfidence is the fixed confidence of sampled results.
const fallbackConfidence = 0.40

var tiers = map[string]bool{
	"Perfect":   true,
	"Excellent": true,
	"Good":      true,
	"Fair":      true,
	"Basic":     true,
}

// Violation is one broken response invariant.
type Violation struct {
	Request   int
	RequestID string
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("request %d (%s): %s", v.Request, v.RequestID, v.Message)
}

// Verify checks a response against the request that produced it.
func Verify(idx int, req Request, resp Response) []Violation {
	var out []Violation
	fail := func(format string, args ...any) {
		out = append(out, Violation{Request: idx, RequestID: resp.RequestID, Message: fmt.Sprintf(format, args...)})
	}

	if resp.RequestID == "" {
		fail("missing request_id")
	}
	if resp.TotalResults != len(resp.Recommendations) {
		fail("total_results %d but %d recommendations", resp.TotalResults, len(resp.Recommendations))
	}
	if want := req.RequestSettings.MaxResults; want > 0 && len(resp.Recommendations) > want {
		fail("%d recommendations exceed max_results %d", len(resp.Recommendations), want)
	}
	if resp.ProcessingTimeMs < 0 {
		fail("negative processing_time_ms %v", resp.ProcessingTimeMs)
	}

	seen := make(map[string]bool, len(resp.Recommendations))
	for i, rec := range resp.Recommendations {
		if rec.Rank != i+1 {
			fail("recommendation %d has rank %d", i, rec.Rank)
		}
		if rec.IsBestMatch != (i == 0) {
			fail("recommendation %d is_best_match=%t", i, rec.IsBestMatch)
		}
		if !strings.HasPrefix(rec.ID, "rec_") {
			fail("recommendation %d has id %q", i, rec.ID)
		}
		if seen[rec.ID] {
			fail("duplicate id %s", rec.ID)
		}
		seen[rec.ID] = true
		if rec.Confidence < 0 || rec.Confidence > 1 {
			fail("recommendation %d confidence %v out of [0,1]", i, rec.Confidence)
		}
		if !tiers[rec.MatchQuality] {
			fail("recommendation %d has match_quality %q", i, rec.MatchQuality)
		}
		if resp.Fallback {
			if math.Abs(rec.Confidence-fallbackConfidence) > 1e-9 || rec.MatchQuality != "Fair" {
				fail("fallback recommendation %d is %v/%s", i, rec.Confidence, rec.MatchQuality)
			}
		} else if i > 0 && rec.Confidence > resp.Recommendations[0].Confidence+1e-9 {
			fail("recommendation %d scores above the best match", i)
		}
	}
	return out
}
