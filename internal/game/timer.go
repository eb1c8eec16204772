package game

import (
	"fmt"
	"time"

	"github.com/mellon2025/sinjin/internal/db"
)

// Command is an admin-issued timer transition.
type Command string

const (
	CommandStart Command = "start"
	CommandStop  Command = "stop"
	CommandReset Command = "reset"
)

func ParseCommand(raw string) (Command, error) {
	switch Command(raw) {
	case CommandStart, CommandStop, CommandReset:
		return Command(raw), nil
	default:
		return "", fmt.Errorf("unknown timer command %q", raw)
	}
}

// Apply writes the command's effect onto the settings record.
//
// start always restarts the clock from the full configured duration;
// it never resumes a stopped countdown. stop retains the start anchor
// and records a stop anchor so the frozen value stays derivable.
// Stopping an already-stopped or idle timer is a no-op.
func (c Command) Apply(s *db.Settings, now time.Time) {
	switch c {
	case CommandStart:
		started := now
		s.TimerActive = true
		s.TimerStartTime = &started
		s.TimerStopTime = nil
	case CommandStop:
		if !s.TimerActive {
			return
		}
		stopped := now
		s.TimerActive = false
		s.TimerStopTime = &stopped
	case CommandReset:
		s.TimerActive = false
		s.TimerStartTime = nil
		s.TimerStopTime = nil
	}
}

// Remaining derives the countdown value from the persisted anchors.
// It is a pure function of (now, anchors); the remaining value itself
// is never stored, so every observer computes the same result.
//
//   - running: duration - (now - start), clamped to [0, duration]
//   - stopped with both anchors: duration - (stop - start), frozen
//   - otherwise (idle or reset): the full configured duration
func Remaining(s *db.Settings, now time.Time) time.Duration {
	duration := time.Duration(s.TimerDuration) * time.Second
	if duration <= 0 {
		return 0
	}
	switch {
	case s.TimerActive && s.TimerStartTime != nil:
		return clampDuration(duration-now.Sub(*s.TimerStartTime), duration)
	case !s.TimerActive && s.TimerStartTime != nil && s.TimerStopTime != nil:
		return clampDuration(duration-s.TimerStopTime.Sub(*s.TimerStartTime), duration)
	default:
		return duration
	}
}

// Fraction reports remaining/duration in [0, 1] for progress display.
// A non-positive duration yields 0 rather than dividing by zero.
func Fraction(s *db.Settings, now time.Time) float64 {
	duration := time.Duration(s.TimerDuration) * time.Second
	if duration <= 0 {
		return 0
	}
	return float64(Remaining(s, now)) / float64(duration)
}

func clampDuration(d, max time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > max {
		return max
	}
	return d
}
