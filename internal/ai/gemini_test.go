package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json untouched", `{"reply":"ok"}`, `{"reply":"ok"}`},
		{"json fence stripped", "```json\n{\"reply\":\"ok\"}\n```", `{"reply":"ok"}`},
		{"bare fence stripped", "```\n{\"reply\":\"ok\"}\n```", `{"reply":"ok"}`},
		{"surrounding whitespace trimmed", "  {\"reply\":\"ok\"}\n", `{"reply":"ok"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONString(tt.input))
		})
	}
}

func TestTripIntentDecodesModelOutput(t *testing.T) {
	raw := cleanJSONString("```json\n" + `{
		"pickup": "Chennai Central",
		"drop": "Bangalore Majestic",
		"vehicle_class": "suv",
		"trip_type": "outstation",
		"needs_clarification": false,
		"reply": "SUV from Chennai Central to Bangalore Majestic."
	}` + "\n```")

	var intent TripIntent
	require.NoError(t, json.Unmarshal([]byte(raw), &intent))
	require.NotNil(t, intent.Pickup)
	require.NotNil(t, intent.Drop)
	assert.Equal(t, "Chennai Central", *intent.Pickup)
	assert.Equal(t, "suv", intent.VehicleClass)
	assert.False(t, intent.NeedsClarification)
}
