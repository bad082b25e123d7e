package jsontime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMilli_MarshalJSON(t *testing.T) {
	tm := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	data, err := json.Marshal(Milli(tm))
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if string(data) != "1705314600000" {
		t.Errorf("MarshalJSON = %s", data)
	}
}

func TestMilli_UnmarshalJSON(t *testing.T) {
	var ep Milli
	if err := json.Unmarshal([]byte("1705314600000"), &ep); err != nil {
		t.Fatalf("UnmarshalJSON error: %v", err)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !ep.Time().Equal(want) {
		t.Errorf("UnmarshalJSON = %v, want %v", ep, want)
	}
	if err := json.Unmarshal([]byte(`"soon"`), &ep); err == nil {
		t.Error("expected error for string input")
	}
}

func TestMilli_RoundTrip(t *testing.T) {
	type record struct {
		At Milli `json:"at" yaml:"at" msgpack:"at"`
	}
	in := record{At: NowEpochMilli()}

	codecs := []struct {
		name      string
		marshal   func(any) ([]byte, error)
		unmarshal func([]byte, any) error
	}{
		{"json", json.Marshal, json.Unmarshal},
		{"yaml", yaml.Marshal, yaml.Unmarshal},
		{"msgpack", msgpack.Marshal, msgpack.Unmarshal},
	}
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			data, err := c.marshal(in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var out record
			if err := c.unmarshal(data, &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !out.At.Equal(in.At) {
				t.Errorf("round trip: in=%v out=%v", in.At, out.At)
			}
		})
	}
}

func TestMilli_YAMLIsInteger(t *testing.T) {
	data, err := yaml.Marshal(map[string]Milli{"at": Milli(time.UnixMilli(42))})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "at: 42\n" {
		t.Errorf("yaml = %q", data)
	}
}

func TestMilli_Comparisons(t *testing.T) {
	t1 := Milli(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	t2 := Milli(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	if !t1.Before(t2) {
		t.Error("t1 should be before t2")
	}
	if !t2.After(t1) {
		t.Error("t2 should be after t1")
	}
	if t1.Equal(t2) || !t1.Equal(t1) {
		t.Error("Equal mismatch")
	}
	if t2.Sub(t1) != 24*time.Hour {
		t.Errorf("Sub = %v", t2.Sub(t1))
	}
	if !t1.Add(24 * time.Hour).Equal(t2) {
		t.Error("Add mismatch")
	}
}

func TestMilli_Methods(t *testing.T) {
	ep := Milli(time.Date(2024, 1, 15, 10, 30, 0, 123e6, time.UTC))
	if got := ep.String(); got != "2024-01-15T10:30:00.123Z" {
		t.Errorf("String() = %q", got)
	}

	var zero Milli
	if !zero.IsZero() {
		t.Error("zero Milli should be zero")
	}
	if NowEpochMilli().Time().Nanosecond()%int(time.Millisecond) != 0 {
		t.Error("NowEpochMilli is not truncated to milliseconds")
	}
}
