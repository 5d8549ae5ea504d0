package scrip

import (
	"encoding/json"
	"time"

	"github.com/iov-one/scrip/errors"
)

// UnixTime represents a point in time as POSIX time.
// Using a primitive int64 with seconds precision instead of Go's time.Time
// keeps the stored representation small and language agnostic.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add returns this time moved by the given duration. If the result would
// not fit into the fixed-width representation, ErrOverflow is returned.
func (t UnixTime) Add(d UnixDuration) (UnixTime, error) {
	sum := int64(t) + int64(d)
	if d > 0 && sum < int64(t) {
		return 0, errors.Wrap(errors.ErrOverflow, "time addition")
	}
	if d < 0 && sum > int64(t) {
		return 0, errors.Wrap(errors.ErrOverflow, "time addition")
	}
	return UnixTime(sum), nil
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it
// is convenient to use a string format in configurations.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := UnixTime(stdtime.Unix())
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the
// time.Time structure would.
func (t UnixTime) String() string {
	return t.Time().String()
}

// UnixDuration represents a time duration with seconds precision.
type UnixDuration int32

// AsUnixDuration converts given Duration into UnixDuration representation.
// Precision lower than one second is dropped.
func AsUnixDuration(d time.Duration) UnixDuration {
	return UnixDuration(d / time.Second)
}

// Duration returns the time.Duration representation of this duration.
func (d UnixDuration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

func (d *UnixDuration) UnmarshalJSON(raw []byte) error {
	var secs int32
	if err := json.Unmarshal(raw, &secs); err == nil {
		*d = UnixDuration(secs)
		return nil
	}

	var stdduration time.Duration
	if err := json.Unmarshal(raw, &stdduration); err == nil {
		*d = AsUnixDuration(stdduration)
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid duration format")
}

// Validate returns an error if this duration value is invalid.
func (d UnixDuration) Validate() error {
	if d < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (d UnixDuration) String() string {
	return d.Duration().String()
}
