package effects

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Phase is where a timestamp falls relative to a clip's transition window.
type Phase int

const (
	BeforeWindow Phase = iota
	InWindow
	AfterWindow
)

func (p Phase) String() string {
	switch p {
	case BeforeWindow:
		return "before"
	case InWindow:
		return "in"
	case AfterWindow:
		return "after"
	}
	return "unknown"
}

// ClipTiming places one transition at the tail of a clip. All values are
// microseconds on the global composition clock.
type ClipTiming struct {
	ClipStartUs          int64
	ClipDurationUs       int64
	TransitionDurationUs int64
}

// NewClipTiming validates the values. Negative values are rejected; a
// transition longer than the clip is shortened to the clip duration.
func NewClipTiming(clipStartUs, clipDurationUs, transitionDurationUs int64) (ClipTiming, error) {
	switch {
	case clipStartUs < 0:
		return ClipTiming{}, &TimingError{Field: "clip start", Value: clipStartUs}
	case clipDurationUs < 0:
		return ClipTiming{}, &TimingError{Field: "clip duration", Value: clipDurationUs}
	case transitionDurationUs < 0:
		return ClipTiming{}, &TimingError{Field: "transition duration", Value: transitionDurationUs}
	}
	if transitionDurationUs > clipDurationUs {
		logrus.WithFields(logrus.Fields{
			"function":   "NewClipTiming",
			"clip":       clipDurationUs,
			"transition": transitionDurationUs,
		}).Warn("Transition longer than clip, clamping")
		transitionDurationUs = clipDurationUs
	}
	return ClipTiming{
		ClipStartUs:          clipStartUs,
		ClipDurationUs:       clipDurationUs,
		TransitionDurationUs: transitionDurationUs,
	}, nil
}

// TransitionStartUs is when the blend begins.
func (c ClipTiming) TransitionStartUs() int64 {
	return c.ClipStartUs + c.ClipDurationUs - c.TransitionDurationUs
}

// TransitionEndUs is when the blend completes, the end of the clip.
func (c ClipTiming) TransitionEndUs() int64 {
	return c.ClipStartUs + c.ClipDurationUs
}

// Phase classifies t. The window is half open: [start, end).
func (c ClipTiming) Phase(t int64) Phase {
	switch {
	case t < c.TransitionStartUs():
		return BeforeWindow
	case t < c.TransitionEndUs():
		return InWindow
	default:
		return AfterWindow
	}
}

// LinearProgress is the uneased position of t within the window, in [0,1].
func (c ClipTiming) LinearProgress(t int64) float64 {
	switch c.Phase(t) {
	case BeforeWindow:
		return 0
	case AfterWindow:
		return 1
	}
	x := float64(t-c.TransitionStartUs()) / float64(c.TransitionDurationUs)
	return math.Min(math.Max(x, 0), 1)
}

// Progress is the eased progress handed to transition shaders.
func (c ClipTiming) Progress(t int64) float64 {
	return Ease(c.LinearProgress(t))
}

// Ease is the sine ease-out applied to every transition.
func Ease(linear float64) float64 {
	if linear <= 0 {
		return 0
	}
	if linear >= 1 {
		return 1
	}
	return math.Sin(linear * math.Pi / 2)
}
