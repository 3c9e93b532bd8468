package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/zjrosen/floof/internal/log"
)

// Output is the sink voices are mixed into. Lock and Unlock guard changes to
// streamers that the output may be reading from.
type Output interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// speakerState tracks beep's speaker, which exists at most once per process.
var speakerState struct {
	mu   sync.Mutex
	rate beep.SampleRate
	err  error
	done bool
}

// SpeakerOutput plays through the system audio device via beep's speaker.
type SpeakerOutput struct {
	rate beep.SampleRate
}

// OpenSpeaker initializes the process-wide speaker on first use and returns
// an Output bound to it. The speaker cannot be reinitialized, so later calls
// share the first call's sample rate and buffer size.
func OpenSpeaker(sampleRate int, bufferSize time.Duration) (*SpeakerOutput, error) {
	speakerState.mu.Lock()
	defer speakerState.mu.Unlock()

	if !speakerState.done {
		rate := beep.SampleRate(sampleRate)
		speakerState.err = speaker.Init(rate, rate.N(bufferSize))
		speakerState.rate = rate
		speakerState.done = true
		if speakerState.err != nil {
			log.ErrorErr(log.CatAudio, "Failed to initialize speaker", speakerState.err,
				"sampleRate", sampleRate, "bufferSize", bufferSize.String())
		} else {
			log.Debug(log.CatAudio, "Speaker initialized", "sampleRate", sampleRate, "bufferSize", bufferSize.String())
		}
	} else if int(speakerState.rate) != sampleRate {
		log.Debug(log.CatAudio, "Speaker already running, reusing its sample rate",
			"requested", sampleRate, "active", int(speakerState.rate))
	}

	if speakerState.err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", speakerState.err)
	}
	return &SpeakerOutput{rate: speakerState.rate}, nil
}

// SampleRate returns the speaker's sample rate.
func (s *SpeakerOutput) SampleRate() beep.SampleRate { return s.rate }

// Play adds s to the speaker mix.
func (s *SpeakerOutput) Play(st beep.Streamer) { speaker.Play(st) }

// Lock locks the speaker.
func (s *SpeakerOutput) Lock() { speaker.Lock() }

// Unlock unlocks the speaker.
func (s *SpeakerOutput) Unlock() { speaker.Unlock() }
