package sqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "No placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "Single placeholder",
			query: "DELETE FROM assets WHERE id = ?",
			want:  "DELETE FROM assets WHERE id = $1",
		},
		{
			name:  "Many placeholders",
			query: "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			want:  "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RebindDollar(tt.query))
		})
	}
}

func TestMonotonicClock_StrictlyIncreasing(t *testing.T) {
	frozen := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)
	clock := &monotonicClock{now: func() time.Time { return frozen }}

	first := clock.stamp()
	second := clock.stamp()
	third := clock.stamp()

	assert.Equal(t, frozen.Truncate(time.Microsecond), first)
	assert.Equal(t, first.Add(time.Microsecond), second)
	assert.Equal(t, second.Add(time.Microsecond), third)
}

func TestTimeValue_Scan(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 500000000, time.UTC)

	tests := []struct {
		name    string
		src     interface{}
		wantErr bool
	}{
		{name: "time.Time", src: want},
		{name: "Storage text", src: "2024-03-01T10:30:00.500000Z"},
		{name: "Bytes", src: []byte("2024-03-01T10:30:00.500000Z")},
		{name: "RFC3339 fallback", src: "2024-03-01T11:30:00.5+01:00"},
		{name: "NULL", src: nil, wantErr: true},
		{name: "Garbage", src: "yesterday", wantErr: true},
		{name: "Wrong type", src: int64(5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := timeValue{layout: TimestampLayout}
			err := v.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, want.Equal(v.t), "got %s", v.t)
		})
	}
}

func TestDateArg_DropsTimeOfDay(t *testing.T) {
	assert.Equal(t, "2024-01-15", dateArg(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)))
}
