package speech

import "errors"

// DefaultLocale is the only recognition language the app asks for.
const DefaultLocale = "en-US"

var ErrUnsupportedCapability = errors.New("speech recognition is not supported")

// Segment is one recognized chunk. Only final segments count toward a
// transcript.
type Segment struct {
	Transcript string
	Final      bool
}

type Options struct {
	Locale         string
	Continuous     bool
	InterimResults bool
}

// Events receives callbacks from a running recognition. OnEnd fires once
// when the engine has fully stopped, whether it was asked to or not.
type Events interface {
	OnResult(segments []Segment)
	OnError(err error)
	OnEnd()
}

// Engine is the platform speech recognition facility.
type Engine interface {
	Start(opts Options, events Events) (Recognition, error)
}

// Recognition is a running session. Stop only requests the end; the engine
// reports completion through Events.OnEnd.
type Recognition interface {
	Stop()
}

type unavailable struct{}

// Unavailable is the engine of a platform without speech recognition.
func Unavailable() Engine { return unavailable{} }

func (unavailable) Start(Options, Events) (Recognition, error) {
	return nil, ErrUnsupportedCapability
}
