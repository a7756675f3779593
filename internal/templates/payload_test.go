package templates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Payloads arrive as decoded JSON, so numbers show up as float64 and lists as
// []interface{}. The accessors have to cope with both shapes.
func TestPayloadAccessorsHandleJSONDecodedValues(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{
		"jobTitle": "Engineer",
		"matchCount": 3,
		"topMatches": ["A", "B"]
	}`), &p))

	assert.Equal(t, "Engineer", p.Str("jobTitle"))
	assert.Equal(t, 3, p.Int("matchCount"))
	assert.Equal(t, []string{"A", "B"}, p.Strs("topMatches"))
}

func TestPayloadAccessorsZeroValues(t *testing.T) {
	p := Payload{"count": "not a number"}

	assert.Equal(t, "", p.Str("missing"))
	assert.Equal(t, 0, p.Int("missing"))
	assert.Equal(t, 0, p.Int("count"))
	assert.Nil(t, p.Strs("missing"))
	assert.False(t, p.Has("missing"))
}

func TestPayloadHasTreatsEmptyStringAsAbsent(t *testing.T) {
	p := Payload{"location": ""}
	assert.False(t, p.Has("location"))
}
