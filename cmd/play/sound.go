package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// sounds plays feedback tones for the player
type sounds interface {
	Blocked()
	Solved()
	Close()
}

// mutedSounds is used when audio is disabled or unavailable
type mutedSounds struct{}

func (mutedSounds) Blocked() {}
func (mutedSounds) Solved()  {}
func (mutedSounds) Close()   {}

// speakerSounds mixes short sine tones into the system speaker
type speakerSounds struct {
	mu    sync.Mutex
	mixer *beep.Mixer
}

// newSpeakerSounds opens the speaker. Callers fall back to mutedSounds on error.
func newSpeakerSounds() (*speakerSounds, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &speakerSounds{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

// Blocked plays a low thud
func (s *speakerSounds) Blocked() {
	s.play(newTone(sampleRate, 140), 120*time.Millisecond)
}

// Solved plays a short rising chirp
func (s *speakerSounds) Solved() {
	s.play(beep.Seq(
		beep.Take(sampleRate.N(90*time.Millisecond), newTone(sampleRate, 523)),
		beep.Take(sampleRate.N(90*time.Millisecond), newTone(sampleRate, 659)),
		newTone(sampleRate, 784),
	), 360*time.Millisecond)
}

func (s *speakerSounds) play(streamer beep.Streamer, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	speaker.Lock()
	s.mixer.Add(beep.Take(sampleRate.N(d), streamer))
	speaker.Unlock()
}

func (s *speakerSounds) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

const (
	toneVolume = 0.2
	toneAttack = 10 * time.Millisecond
)

// newTone returns an endless sine at freq with a short attack to avoid clicks
func newTone(sr beep.SampleRate, freq float64) beep.Streamer {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return beep.Silence(-1)
	}
	return &effects.Volume{
		Streamer: attack(sr, toneAttack, sine),
		Base:     2,
		Volume:   math.Log2(toneVolume),
	}
}

// attack ramps s linearly from silence to full level over d
func attack(sr beep.SampleRate, d time.Duration, s beep.Streamer) beep.Streamer {
	ramp := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n && pos < ramp; i++ {
			gain := float64(pos) / float64(ramp)
			samples[i][0] *= gain
			samples[i][1] *= gain
			pos++
		}
		return n, ok
	})
}
