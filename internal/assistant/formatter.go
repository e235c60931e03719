package assistant

import (
	"fmt"
	"time"

	apperrors "voice-assistant/internal/common/errors"
	"voice-assistant/pkg/registry"
)

const (
	timeLayout = "03:04 PM"
	dateLayout = "Monday, January 02, 2006"
)

// IndiaStandardTime is UTC+05:30.
var IndiaStandardTime = time.FixedZone("IST", 330*60)

// Formatter turns a matched intent into an Answer.
type Formatter struct {
	loc *time.Location
	now func() time.Time
}

func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = IndiaStandardTime
	}
	return &Formatter{loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	f.now = now
	return f
}

// Format renders in. An entry without an answer yields the generic error
// answer together with a MalformedIntentEntry error for the caller to log.
func (f *Formatter) Format(in registry.Intent) (Answer, error) {
	if !in.HasAnswer() {
		return Answer{
			Answer: MalformedEntryMessage,
			Type:   TypeError,
			Source: SourceSystem,
		}, apperrors.NewMalformedIntentEntryError(in.Name)
	}

	if in.IsTimeSentinel() {
		return Answer{
			Answer: f.CurrentTime(),
			Type:   TypeTimeIndia,
			Source: SourcePredefined,
			Intent: in.Name,
		}, nil
	}

	return Answer{
		Answer: *in.Answer,
		Type:   TypePredefined,
		Source: SourcePredefined,
		Intent: in.Name,
	}, nil
}

// CurrentTime is the sentence substituted for the TIME sentinel.
func (f *Formatter) CurrentTime() string {
	now := f.now().In(f.loc)
	return fmt.Sprintf("The current time in India is %s on %s", now.Format(timeLayout), now.Format(dateLayout))
}

// Now returns the current time in the formatter's zone.
func (f *Formatter) Now() time.Time {
	return f.now().In(f.loc)
}
