package trace

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
	"strconv"

	"github.com/roach88/tidewater/internal/event"
)

// DomainTrace separates run digests from any other SHA-256 use.
// The version suffix allows the encoding to change later.
const DomainTrace = "tidewater/trace/v1"

// Record is one processed event in trace form.
type Record struct {
	Seq      int64
	Time     float64
	Kind     string
	Vessel   string
	Trade    string
	Location string
	Phase    string
	Info     string
}

// FromEvent builds the record of the seq-th processed event.
func FromEvent(seq int64, ev event.Event) Record {
	r := Record{
		Seq:      seq,
		Time:     ev.Time,
		Kind:     string(ev.Kind),
		Vessel:   ev.Payload.Vessel,
		Location: string(ev.Payload.Location),
		Info:     ev.Payload.Info,
	}
	if ev.Payload.Trade != nil {
		r.Trade = ev.Payload.Trade.ID
	}
	if ev.Payload.Phase != 0 {
		r.Phase = ev.Payload.Phase.String()
	}
	return r
}

// String renders "<time> <kind> <vessel>@<location>" like event.Event.
func (r Record) String() string {
	s := FormatTime(r.Time) + " " + r.Kind
	if r.Vessel != "" {
		s += " " + r.Vessel
		if r.Location != "" {
			s += "@" + r.Location
		}
	}
	if r.Info != "" {
		s += " " + r.Info
	}
	return s
}

// FormatTime renders a simulation time as its shortest decimal form.
func FormatTime(t float64) string {
	switch {
	case math.IsInf(t, 1):
		return "inf"
	case math.IsInf(t, -1):
		return "-inf"
	}
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// ParseTime is the inverse of FormatTime.
func ParseTime(s string) (float64, error) {
	switch s {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid trace time %q: %w", s, err)
	}
	return t, nil
}

// Object returns the record as a JSON object. Empty fields are omitted.
func (r Record) Object() map[string]any {
	obj := map[string]any{
		"seq":  r.Seq,
		"time": FormatTime(r.Time),
		"kind": r.Kind,
	}
	for k, v := range map[string]string{
		"vessel":   r.Vessel,
		"trade":    r.Trade,
		"location": r.Location,
		"phase":    r.Phase,
		"info":     r.Info,
	} {
		if v != "" {
			obj[k] = v
		}
	}
	return obj
}

// MarshalCanonical encodes the record as one line of canonical JSON.
func (r Record) MarshalCanonical() ([]byte, error) {
	return Marshal(r.Object())
}

// Encode renders records as newline-terminated canonical JSON lines.
func Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range records {
		line, err := r.MarshalCanonical()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", r.Seq, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Hasher accumulates a run digest one record at a time.
type Hasher struct {
	h hash.Hash
}

// NewHasher starts a digest.
// Format: SHA256(domain + 0x00 + line + "\n" + line + "\n" ...)
func NewHasher() *Hasher {
	h := sha256.New()
	h.Write([]byte(DomainTrace))
	h.Write([]byte{0x00})
	return &Hasher{h: h}
}

// Add appends a record to the digest.
func (d *Hasher) Add(r Record) error {
	line, err := r.MarshalCanonical()
	if err != nil {
		return err
	}
	d.h.Write(line)
	d.h.Write([]byte{'\n'})
	return nil
}

// Sum returns the hex digest of everything added so far.
func (d *Hasher) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Digest hashes a complete trace.
func Digest(records []Record) (string, error) {
	d := NewHasher()
	for _, r := range records {
		if err := d.Add(r); err != nil {
			return "", fmt.Errorf("record %d: %w", r.Seq, err)
		}
	}
	return d.Sum(), nil
}
