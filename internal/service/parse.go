package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itinera/itinera-go/internal/model"
)

const codeFence = "```"

var errNotAnObject = errors.New("response is not a JSON object")

// ParseItinerary decodes a raw generator response into an opaque document.
// Any JSON object is accepted whatever its inner shape. A strict decode is
// tried first; if it fails, a surrounding Markdown code fence is stripped and the
// decode is retried once.
func ParseItinerary(raw string) (model.ItineraryData, error) {
	data, err := decodeItinerary(raw)
	if err == nil {
		return data, nil
	}

	data, retryErr := decodeItinerary(stripCodeFence(raw))
	if retryErr != nil {
		return nil, fmt.Errorf("parsing itinerary response: %w", retryErr)
	}
	return data, nil
}

func decodeItinerary(s string) (model.ItineraryData, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, errNotAnObject
	}

	var data model.ItineraryData
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// stripCodeFence removes a leading ``` marker together with a language tag
// written directly after it, and a trailing ``` marker.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, codeFence); ok {
		if i := strings.IndexFunc(rest, func(r rune) bool { return !isTagRune(r) }); i >= 0 {
			s = rest[i:]
		} else {
			s = ""
		}
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, codeFence)

	return strings.TrimSpace(s)
}

func isTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		r == '-' || r == '_' || r == '+'
}
