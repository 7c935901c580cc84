package service

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const sampleItinerary = `{
  "days": [
    {
      "day": 1,
      "date": "Day 1",
      "activities": [
        {
          "time": "Morning (8:00 AM - 12:00 PM)",
          "title": "Louvre",
          "description": "See the Mona Lisa",
          "travel_time": "15 minutes from hotel",
          "tips": "Book tickets online"
        }
      ]
    },
    {"day": 2, "date": "Day 2", "activities": []}
  ]
}`

func TestParseItinerary_Plain(t *testing.T) {
	data, err := ParseItinerary(sampleItinerary)
	if err != nil {
		t.Fatalf("ParseItinerary() unexpected error: %v", err)
	}
	days := data.Days()
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	a := days[0].(map[string]any)["activities"].([]any)[0].(map[string]any)
	if a["title"] != "Louvre" || a["travel_time"] != "15 minutes from hotel" || a["tips"] != "Book tickets online" {
		t.Errorf("unexpected activity: %+v", a)
	}
}

func TestParseItinerary_KeepsDocumentAsGenerated(t *testing.T) {
	raw := `{
	  "summary": "Three slow days",
	  "days": [
	    {
	      "day": "1",
	      "date": "Day 1",
	      "theme": "Museums",
	      "activities": [
	        {"time": "Morning", "title": "Louvre", "tips": ["Book online", "Enter via Carrousel"], "cost": 22}
	      ]
	    }
	  ]
	}`

	data, err := ParseItinerary(raw)
	if err != nil {
		t.Fatalf("ParseItinerary() unexpected error: %v", err)
	}

	var want map[string]any
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(map[string]any(data), want) {
		t.Errorf("ParseItinerary() = %+v, want %+v", data, want)
	}

	day := data.Days()[0].(map[string]any)
	if day["day"] != "1" || day["theme"] != "Museums" {
		t.Errorf("day fields changed: %+v", day)
	}
	tips := day["activities"].([]any)[0].(map[string]any)["tips"]
	if got, ok := tips.([]any); !ok || len(got) != 2 {
		t.Errorf("tips = %#v, want two-element list", tips)
	}
	if data["summary"] != "Three slow days" {
		t.Errorf("summary = %v", data["summary"])
	}
}

func TestParseItinerary_AnyObjectParses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		days int
	}{
		{"days as string", `{"days": "three"}`, 0},
		{"no days key", `{"plan": []}`, 0},
		{"empty object", `{}`, 0},
		{"days of numbers", `{"days": [1, 2]}`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseItinerary(tt.raw)
			if err != nil {
				t.Fatalf("ParseItinerary() unexpected error: %v", err)
			}
			if got := len(data.Days()); got != tt.days {
				t.Errorf("Days() len = %d, want %d", got, tt.days)
			}
		})
	}
}

func TestParseItinerary_FencedMatchesPlain(t *testing.T) {
	want, err := ParseItinerary(sampleItinerary)
	if err != nil {
		t.Fatalf("ParseItinerary() unexpected error: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + sampleItinerary + "\n```"},
		{"bare fence", "```\n" + sampleItinerary + "\n```"},
		{"fence with surrounding whitespace", "\n\n  ```json\n" + sampleItinerary + "\n```  \n"},
		{"other language tag", "```JSON5\n" + sampleItinerary + "\n```"},
		{"tag and body on one line", "```json " + strings.ReplaceAll(sampleItinerary, "\n", "") + "```"},
		{"no closing fence", "```json\n" + sampleItinerary},
		{"no trailing newline", "```json\n" + sampleItinerary + "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItinerary(tt.raw)
			if err != nil {
				t.Fatalf("ParseItinerary() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ParseItinerary() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestParseItinerary_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose", "Here is your itinerary: Day 1, visit the Louvre."},
		{"truncated", `{"days": [{"day": 1`},
		{"fenced garbage", "```json\nnot json\n```"},
		{"null", "null"},
		{"array", `[{"day": 1}]`},
		{"double fenced", "```json\n```json\n" + sampleItinerary + "\n```\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseItinerary(tt.raw); err == nil {
				t.Errorf("ParseItinerary(%q) expected error", tt.raw)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"```{}```", "{}"},
		{"{}", "{}"},
		{"```json", ""},
	}

	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
