package messaging_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/darkkaiser/hms-push/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"Zero", 0, "0s"},
		{"Whole seconds", 5 * time.Second, "5s"},
		{"One hour", time.Hour, "3600s"},
		{"Milliseconds", 10 * time.Millisecond, "0.010000000s"},
		{"Seconds and fraction", 10*time.Second + 500*time.Millisecond, "10.500000000s"},
		{"Nanosecond", time.Nanosecond, "0.000000001s"},
		{"Negative whole", -time.Hour, "-3600s"},
		{"Negative fraction keeps sign", -1500 * time.Millisecond, "-1.500000000s"},
		{"Negative below one second", -500 * time.Millisecond, "-0.500000000s"},
		{"Minimum duration", time.Duration(math.MinInt64), "-9223372036.854775808s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messaging.EncodeDuration(tt.in))
		})
	}
}

func TestDecodeDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"Whole seconds", "5s", 5 * time.Second},
		{"Nine digit fraction", "10.500000000s", 10*time.Second + 500*time.Millisecond},
		{"Fraction is a nanosecond count", "5.5s", 5*time.Second + 5*time.Nanosecond},
		{"Leading zeros in fraction", "0.010000000s", 10 * time.Millisecond},
		{"Negative applies to fraction", "-2.500000000s", -2500 * time.Millisecond},
		{"Negative below one second", "-0.500000000s", -500 * time.Millisecond},
		{"Negative zero", "-0s", 0},
		{"Explicit plus sign", "+3s", 3 * time.Second},
		{"Maximum duration", "9223372036.854775807s", time.Duration(math.MaxInt64)},
		{"Minimum duration", "-9223372036.854775808s", time.Duration(math.MinInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := messaging.DecodeDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDuration_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"", "s", "5", "abc", "1.s", ".5s", "1.1234567890s", "1.-5s", "1.+5s", "-.5s", "1.5.5s", "99999999999999s",
		"9223372036.854775808s", "9223372036.999999999s", "-9223372036.854775809s", "-9223372037s",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := messaging.DecodeDuration(in)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
		})
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0s", "5s", "3600s", "0.010000000s", "10.500000000s", "1.000000001s", "-2.500000000s", "-0.500000000s", "-0.000000001s"} {
		d, err := messaging.DecodeDuration(s)
		require.NoError(t, err)
		assert.Equal(t, s, messaging.EncodeDuration(d), "encode(decode(%q))", s)
	}

	for _, d := range []time.Duration{0, time.Second, 10*time.Second + 500*time.Millisecond, 42 * time.Hour, 123456789 * time.Nanosecond, -500 * time.Millisecond, -1500 * time.Millisecond, time.Duration(math.MaxInt64), time.Duration(math.MinInt64)} {
		got, err := messaging.DecodeDuration(messaging.EncodeDuration(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestAndroidConfig_TTLJSON(t *testing.T) {
	t.Parallel()

	ttl := 10*time.Second + 500*time.Millisecond
	original := &messaging.AndroidConfig{TTL: &ttl, Urgency: messaging.UrgencyHigh}

	b, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ttl":"10.500000000s","urgency":"HIGH"}`, string(b))

	var decoded messaging.AndroidConfig
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotNil(t, decoded.TTL)
	assert.Equal(t, ttl, *decoded.TTL)
	assert.Equal(t, messaging.UrgencyHigh, decoded.Urgency)

	err = json.Unmarshal([]byte(`{"ttl":"ten seconds"}`), &decoded)
	assert.Error(t, err)

	var negative messaging.AndroidConfig
	require.NoError(t, json.Unmarshal([]byte(`{"ttl":"-0.5s"}`), &negative))
	require.NotNil(t, negative.TTL)
	assert.Equal(t, -5*time.Nanosecond, *negative.TTL)
}
