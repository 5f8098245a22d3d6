package speech

import (
	"bufio"
	"io"
	"sync"
)

// LineEngine dictates from text: every non-blank line read from R becomes
// one final segment. The session ends at EOF or when stopped.
type LineEngine struct {
	R io.Reader
}

func (e LineEngine) Start(_ Options, events Events) (Recognition, error) {
	if e.R == nil {
		return nil, ErrUnsupportedCapability
	}
	rec := &lineRecognition{stop: make(chan struct{})}
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(e.R)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-rec.stop:
				return
			}
		}
		errc <- scanner.Err()
	}()

	go func() {
		defer events.OnEnd()
		for {
			select {
			case <-rec.stop:
				return
			case line, ok := <-lines:
				if !ok {
					if err := <-errc; err != nil {
						events.OnError(err)
					}
					return
				}
				events.OnResult([]Segment{{Transcript: line, Final: true}})
			}
		}
	}()
	return rec, nil
}

type lineRecognition struct {
	once sync.Once
	stop chan struct{}
}

func (r *lineRecognition) Stop() {
	r.once.Do(func() { close(r.stop) })
}
