// Package testutil provides shared dataset fixtures for tests.
package testutil

import "fmt"

// Heroes is the canonical small fixture used across the test suite:
// three nested records with mixed scalar, numeric, and array fields.
func Heroes() []map[string]any {
	return []map[string]any{
		{
			"name":   "Thor",
			"age":    float64(1500),
			"gender": "M",
			"favorite": map[string]any{
				"food": []any{"banana", "pizza"},
			},
		},
		{
			"name":   "Loki",
			"age":    float64(1054),
			"gender": "M",
			"favorite": map[string]any{
				"food": []any{"peas", "pizza"},
			},
		},
		{
			"name":   "Thanos",
			"age":    float64(1000),
			"gender": "M",
			"favorite": map[string]any{
				"food": []any{"peas", "banana"},
			},
		},
	}
}

// Generate builds n synthetic records with deterministic content: numeric
// ids and scores, a small string enum, booleans, tag arrays, and the odd
// record with a missing or null field. Useful for index-versus-scan
// equivalence checks over mixed-type data.
func Generate(n int) []map[string]any {
	regions := []string{"east", "west", "north", "south"}
	records := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		rec := map[string]any{
			"id":     float64(i),
			"name":   fmt.Sprintf("user-%03d", i),
			"region": regions[i%len(regions)],
			"active": i%2 == 0,
			"score":  float64(i%17) + float64(i%3)*0.5,
			"tags":   []any{regions[i%len(regions)], fmt.Sprintf("tier-%d", i%3)},
			"profile": map[string]any{
				"level": float64(i % 5),
			},
		}
		// A few irregular records keep missing-field paths honest.
		switch i % 11 {
		case 3:
			delete(rec, "score")
		case 7:
			rec["score"] = nil
		case 9:
			rec["score"] = fmt.Sprintf("%d", i%17) // stringly-typed score
		}
		records[i] = rec
	}
	return records
}
