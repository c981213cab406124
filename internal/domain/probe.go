package domain

import (
	"math"
	"strconv"
)

type ProbeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	NbStreams  int    `json:"nb_streams"`
}

type ProbeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	PixFmt    string `json:"pix_fmt"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
}

type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

func (p *ProbeResult) VideoStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

func (p *ProbeResult) AudioStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "audio" {
			return &p.Streams[i]
		}
	}
	return nil
}

func (p *ProbeResult) Dimensions() (width, height int) {
	if vs := p.VideoStream(); vs != nil {
		return vs.Width, vs.Height
	}
	return 0, 0
}

// Duration returns the container duration, falling back to the video stream's
// duration when the container does not report one. Zero means unknown.
func (p *ProbeResult) Duration() float64 {
	if d := ParseDuration(p.Format.Duration); d > 0 {
		return d
	}
	if vs := p.VideoStream(); vs != nil {
		return ParseDuration(vs.Duration)
	}
	return 0
}

func ParseDuration(durationStr string) float64 {
	if durationStr == "" || durationStr == "N/A" {
		return 0
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0
	}
	return duration
}

// EffectiveDuration floors a probed duration at one second so downstream
// bitrate math never divides by zero.
func EffectiveDuration(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < 1 {
		return 1
	}
	return seconds
}
