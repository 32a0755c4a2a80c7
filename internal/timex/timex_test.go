package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"3s"`, want: 3 * time.Second},
		{name: "nanoseconds", in: `1500000000`, want: 1500 * time.Millisecond},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 250ms\nb: 2000000000\n"), &cfg))
	assert.Equal(t, 250*time.Millisecond, cfg.A.Duration)
	assert.Equal(t, 2*time.Second, cfg.B.Duration)

	require.Error(t, yaml.Unmarshal([]byte("a: later\n"), &cfg))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestDates(t *testing.T) {
	d, err := ParseDate("20250101", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "20241231", FormatDate(AddDays(d, -1)))
	assert.Equal(t, "20250131", FormatDate(AddDays(d, 30)))

	_, err = ParseDate("2025-01-01", time.UTC)
	require.Error(t, err)

	noon := time.Date(2025, 3, 4, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), Day(noon))
}

func TestClock(t *testing.T) {
	at := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, at, Fixed(at).Now())

	var c Clock
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
