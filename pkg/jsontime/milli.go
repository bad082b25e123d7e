// Package jsontime provides time types that encode as Unix milliseconds in
// JSON, YAML and MessagePack.
package jsontime

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Milli is a time.Time that serializes to/from Unix milliseconds.
type Milli time.Time

// NowEpochMilli returns the current time as Milli, truncated to the
// millisecond so it survives a round trip unchanged.
func NowEpochMilli() Milli {
	return Milli(time.UnixMilli(time.Now().UnixMilli()))
}

// Time returns the underlying time.Time value.
func (ep Milli) Time() time.Time {
	return time.Time(ep)
}

// Before reports whether ep is before t.
func (ep Milli) Before(t Milli) bool {
	return time.Time(ep).Before(time.Time(t))
}

// After reports whether ep is after t.
func (ep Milli) After(t Milli) bool {
	return time.Time(ep).After(time.Time(t))
}

// Equal reports whether ep and t represent the same time instant.
func (ep Milli) Equal(t Milli) bool {
	return time.Time(ep).Equal(time.Time(t))
}

// String returns the time formatted as RFC 3339 with milliseconds.
func (ep Milli) String() string {
	return time.Time(ep).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// IsZero reports whether ep represents the zero time instant.
func (ep Milli) IsZero() bool {
	return time.Time(ep).IsZero()
}

// Sub returns the duration ep-t.
func (ep Milli) Sub(t Milli) time.Duration {
	return time.Time(ep).Sub(time.Time(t))
}

// Add returns the time ep+d.
func (ep Milli) Add(d time.Duration) Milli {
	return Milli(time.Time(ep).Add(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (ep *Milli) UnmarshalJSON(b []byte) error {
	var t int64
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(t))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ep Milli) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(ep).UnixMilli())
}

// MarshalYAML encodes ep as an integer. Both goccy/go-yaml and
// gopkg.in/yaml.v3 accept this form.
func (ep Milli) MarshalYAML() (any, error) {
	return time.Time(ep).UnixMilli(), nil
}

// UnmarshalYAML decodes an integer written by MarshalYAML.
func (ep *Milli) UnmarshalYAML(unmarshal func(any) error) error {
	var t int64
	if err := unmarshal(&t); err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(t))
	return nil
}

var (
	_ msgpack.CustomEncoder = Milli{}
	_ msgpack.CustomDecoder = (*Milli)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (ep Milli) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(time.Time(ep).UnixMilli())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (ep *Milli) DecodeMsgpack(dec *msgpack.Decoder) error {
	t, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(t))
	return nil
}
