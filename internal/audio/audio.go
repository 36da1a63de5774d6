package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/l1jgo/arena/internal/config"
	"go.uber.org/zap"
)

// Player plays the game's sound cues.
type Player interface {
	Hit()
	Death()
	Close()
}

// Open returns a speaker-backed player, or a silent one when audio is
// disabled or the device cannot be opened. Audio failure is never fatal.
func Open(cfg config.AudioConfig, log *zap.Logger) Player {
	if !cfg.Enabled {
		return Silent{}
	}
	s, err := NewSpeaker(cfg, log)
	if err != nil {
		log.Warn("audio disabled", zap.Error(err))
		return Silent{}
	}
	return s
}

// Speaker synthesizes short sine cues on the default output device.
type Speaker struct {
	rate   beep.SampleRate
	volume float64
	log    *zap.Logger
}

func NewSpeaker(cfg config.AudioConfig, log *zap.Logger) (*Speaker, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return &Speaker{rate: rate, volume: cfg.Volume, log: log}, nil
}

func (s *Speaker) Hit()   { s.play(880, 50*time.Millisecond) }
func (s *Speaker) Death() { s.play(220, 120*time.Millisecond) }

func (s *Speaker) Close() { speaker.Close() }

func (s *Speaker) play(freq float64, d time.Duration) {
	st, err := s.tone(freq, d)
	if err != nil {
		s.log.Debug("tone", zap.Float64("freq", freq), zap.Error(err))
		return
	}
	speaker.Play(st)
}

// tone returns d worth of a sine at freq, scaled to the configured volume.
func (s *Speaker) tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(s.rate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Gain{Streamer: beep.Take(s.rate.N(d), sine), Gain: s.volume - 1}, nil
}

// Silent drops every cue.
type Silent struct{}

func (Silent) Hit()   {}
func (Silent) Death() {}
func (Silent) Close() {}
