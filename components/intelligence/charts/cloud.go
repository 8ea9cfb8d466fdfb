package charts

import "math/rand/v2"

// TrendingTopic is a discussion topic with volume and sentiment signals.
type TrendingTopic struct {
	ID        string  `json:"id" yaml:"id"`
	Label     string  `json:"label" yaml:"label"`
	Volume    float64 `json:"volume" yaml:"volume"`
	Sentiment float64 `json:"sentiment" yaml:"sentiment"`
	Velocity  float64 `json:"velocity" yaml:"velocity"`
	Category  string  `json:"category" yaml:"category"`
}

// PillSize buckets topic volume.
type PillSize string

const (
	PillLarge  PillSize = "large"
	PillMedium PillSize = "medium"
	PillSmall  PillSize = "small"
)

// SizeFor maps a 0-10 volume onto a pill size.
func SizeFor(volume float64) PillSize {
	switch {
	case volume >= 8:
		return PillLarge
	case volume >= 5:
		return PillMedium
	default:
		return PillSmall
	}
}

// ToneFor maps a -1..1 sentiment onto a colour tone.
func ToneFor(sentiment float64) Tone {
	switch {
	case sentiment > 0.3:
		return TonePositive
	case sentiment < -0.3:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// TopicPill is a rendered topic; From is the scattered entrance offset that settles to zero.
type TopicPill struct {
	Topic TrendingTopic `json:"topic"`
	Size  PillSize      `json:"size"`
	Tone  Tone          `json:"tone"`
	From  Point         `json:"from"`
	Delay float64       `json:"delay"`
}

// TopicCloud is the set of pills in data order.
type TopicCloud struct {
	Pills []TopicPill `json:"pills"`
	Delay float64     `json:"delay"`
}

const cloudScatter = 20

// NewTopicCloud buckets each topic. rng drives the cosmetic entrance offset;
// a nil rng uses the global source.
func NewTopicCloud(topics []TrendingTopic, rng *rand.Rand, delay float64) TopicCloud {
	jitter := func() float64 {
		if rng == nil {
			return (rand.Float64()*2 - 1) * cloudScatter
		}
		return (rng.Float64()*2 - 1) * cloudScatter
	}
	cloud := TopicCloud{Delay: delay, Pills: make([]TopicPill, len(topics))}
	for i, topic := range topics {
		cloud.Pills[i] = TopicPill{
			Topic: topic,
			Size:  SizeFor(topic.Volume),
			Tone:  ToneFor(topic.Sentiment),
			From:  Point{X: jitter(), Y: jitter()},
			Delay: delay + float64(i)*0.05,
		}
	}
	return cloud
}
