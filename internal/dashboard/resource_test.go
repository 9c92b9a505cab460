package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TextRoundTrip(t *testing.T) {
	for _, want := range []Status{Idle, Loading, Ready, Failed} {
		t.Run(want.String(), func(t *testing.T) {
			text, err := want.MarshalText()
			require.NoError(t, err)

			var got Status
			require.NoError(t, got.UnmarshalText(text))
			assert.Equal(t, want, got)
		})
	}
}

func TestStatus_UnmarshalRejectsUnknownName(t *testing.T) {
	for _, name := range []string{"", "READY", "done", "status(7)"} {
		s := Ready
		assert.Error(t, s.UnmarshalText([]byte(name)), name)
		assert.Equal(t, Ready, s, "a rejected name leaves the value untouched")
	}
}

func TestResource_JSONRoundTrip(t *testing.T) {
	in := Resource[[]string]{
		Status:    Failed,
		Data:      []string{"bitcoin"},
		HasData:   true,
		Err:       "Rate limit exceeded. Please try again later.",
		UpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"failed"`)

	var out Resource[[]string]
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"bogus"}`), &out))
}

func TestResourceState_DataGenerationOnlyOnSuccess(t *testing.T) {
	var r resourceState[[]string]
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, r.complete(r.begin(), []string{"bitcoin"}, "", now))
	assert.Equal(t, uint64(1), r.dataGen)

	require.True(t, r.complete(r.begin(), nil, "API Error: 503 Service Unavailable", now.Add(time.Minute)))
	assert.Equal(t, uint64(1), r.dataGen)
	assert.Equal(t, []string{"bitcoin"}, r.Data)
	assert.Equal(t, now, r.UpdatedAt)

	stale := r.begin()
	require.True(t, r.complete(r.begin(), []string{"ethereum"}, "", now))
	assert.False(t, r.complete(stale, []string{"solana"}, "", now))
	assert.Equal(t, uint64(2), r.dataGen)
	assert.Equal(t, []string{"ethereum"}, r.Data)
}
