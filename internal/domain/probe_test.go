package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeJSON = `{
	"streams": [
		{"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "pix_fmt": "yuv420p", "duration": "29.960000"},
		{"index": 1, "codec_type": "audio", "codec_name": "aac", "duration": "30.001000"}
	],
	"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "30.016000", "size": "48211233", "bit_rate": "12849352", "nb_streams": 2}
}`

func TestProbeResult_Decode(t *testing.T) {
	var result ProbeResult
	require.NoError(t, json.Unmarshal([]byte(sampleProbeJSON), &result))

	w, h := result.Dimensions()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	assert.InDelta(t, 30.016, result.Duration(), 0.0001)
	require.NotNil(t, result.AudioStream())
	assert.Equal(t, "aac", result.AudioStream().CodecName)
}

func TestProbeResult_DurationFallsBackToVideoStream(t *testing.T) {
	result := ProbeResult{
		Format:  ProbeFormat{Duration: "N/A"},
		Streams: []ProbeStream{{CodecType: "video", Duration: "12.5"}},
	}
	assert.Equal(t, 12.5, result.Duration())
}

func TestProbeResult_NoVideo(t *testing.T) {
	result := ProbeResult{Streams: []ProbeStream{{CodecType: "audio"}}}

	assert.Nil(t, result.VideoStream())
	w, h := result.Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Zero(t, result.Duration())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"30.5", 30.5},
		{"0", 0},
		{"", 0},
		{"N/A", 0},
		{"garbage", 0},
		{"NaN", 0},
		{"+Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.input))
		})
	}
}

func TestEffectiveDuration(t *testing.T) {
	assert.Equal(t, 1.0, EffectiveDuration(0))
	assert.Equal(t, 1.0, EffectiveDuration(-3))
	assert.Equal(t, 1.0, EffectiveDuration(0.4))
	assert.Equal(t, 42.0, EffectiveDuration(42))
}
