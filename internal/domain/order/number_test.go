package order

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberer_FormatsTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewNumbererAt(func() time.Time { return at })

	assert.Equal(t, "ORD-20260314092653", n.Next())
}

func TestNumberer_SameSecondGetsSuffix(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewNumbererAt(func() time.Time { return at })

	assert.Equal(t, "ORD-20260314092653", n.Next())
	assert.Equal(t, "ORD-20260314092653-2", n.Next())
	assert.Equal(t, "ORD-20260314092653-3", n.Next())
}

func TestNumberer_NewSecondResetsSuffix(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewNumbererAt(func() time.Time { return now })

	assert.Equal(t, "ORD-20260314092653", n.Next())
	assert.Equal(t, "ORD-20260314092653-2", n.Next())

	now = now.Add(time.Second)
	assert.Equal(t, "ORD-20260314092654", n.Next())
	assert.Equal(t, "ORD-20260314092654-2", n.Next())
}

func TestNumberer_ConcurrentNumbersAreUnique(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewNumbererAt(func() time.Time { return at })

	const goroutines = 50
	results := make([]string, goroutines)

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = n.Next()
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, goroutines)
	for _, number := range results {
		seen[number] = struct{}{}
	}
	assert.Len(t, seen, goroutines)
}

func TestParseNumberTime_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewNumbererAt(func() time.Time { return at })

	parsed, err := ParseNumberTime(n.Next())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestParseNumberTime_IgnoresSuffix(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewNumbererAt(func() time.Time { return at })

	n.Next()
	suffixed := n.Next()
	require.Equal(t, "ORD-20260314092653-2", suffixed)

	parsed, err := ParseNumberTime(suffixed)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestParseNumberTime_TruncatesToSecond(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 987654321, time.UTC)
	n := NewNumbererAt(func() time.Time { return at })

	parsed, err := ParseNumberTime(n.Next())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at.Truncate(time.Second)))
}

func TestParseNumberTime_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "wrong prefix", input: "INV-20260314092653"},
		{name: "short timestamp", input: "ORD-2026031409"},
		{name: "non-digits", input: "ORD-notatimestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNumberTime(tt.input)
			require.ErrorIs(t, err, ErrBadOrderNumber)
		})
	}
}
