package probe

import (
	"math/rand"
	"time"
)

// Budget and result-count ranges for generated requests.
const (
	maxBudgetMin   = 500
	minBudgetSpan  = 50
	maxBudgetSpan  = 400
	maxResultsHigh = 5

	// Every unknownEvery-th request carries a style that matches nothing.
	unknownEvery = 10
	unknownStyle = "Gothic"
)

// Vocabulary keys in the model-info payload.
const (
	vocabStyle         = "style"
	vocabRoomType      = "room_type"
	vocabIndoorOutdoor = "indoor_outdoor"
	vocabClimate       = "climate"
)

// Generate builds n requests drawn from the served vocabularies. The same
// seed yields the same requests.
func Generate(n int, vocab map[string][]string, seed int64) []Request {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // load generation, not security

	var first bool
	pick := func(key string) string {
		values := vocab[key]
		if len(values) == 0 {
			return ""
		}
		if first {
			return values[0]
		}
		return values[rng.Intn(len(values))]
	}

	reqs := make([]Request, n)
	for i := range reqs {
		// The first request uses the first entry of every vocabulary.
		first = i == 0
		lo := rng.Intn(maxBudgetMin + 1)
		style := pick(vocabStyle)
		if (i+1)%unknownEvery == 0 {
			style = unknownStyle
		}
		reqs[i] = Request{
			UserPreferences: Preferences{
				BudgetMin:       lo,
				BudgetMax:       lo + minBudgetSpan + rng.Intn(maxBudgetSpan),
				StylePreference: style,
				RoomType:        pick(vocabRoomType),
				IndoorOutdoor:   pick(vocabIndoorOutdoor),
				ClimateType:     pick(vocabClimate),
				Location:        "probe",
			},
			RequestSettings: Settings{MaxResults: 1 + rng.Intn(maxResultsHigh)},
		}
	}
	return reqs
}
