// Package clinical accumulates a pet's clinical history across visits.
//
// A Record holds three append-only logs. The only way to grow a Record is
// AppendVisit; nothing in this package removes or rewrites an entry. The flat
// newline-joined text stored next to the logs is derived from them with Text.
package clinical

import (
	"strings"
	"time"
)

// DateLayout is the day/month/year format used to tag observations.
const DateLayout = "02/01/2006"

// Entry is one visit's contribution to a single field.
type Entry struct {
	Date string `json:"date,omitempty" bson:"date,omitempty"`
	Text string `json:"text" bson:"text"`
	// Raw marks text imported from a record that predates the entry log.
	// It is rendered verbatim, without a date tag.
	Raw bool `json:"raw,omitempty" bson:"raw,omitempty"`
}

// Log is an ordered list of entries, oldest first.
type Log []Entry

// Record is the accumulated clinical history of one pet.
type Record struct {
	Veterinarian  Log `json:"veterinarian" bson:"veterinarian"`
	ConsultReason Log `json:"consult_reason" bson:"consult_reason"`
	Observations  Log `json:"observations" bson:"observations"`
}

// Visit holds the fields entered for a single consultation.
type Visit struct {
	Veterinarian  string
	ConsultReason string
	Observations  string
}

// Empty reports whether every field of the visit is blank.
func (v Visit) Empty() bool {
	return strings.TrimSpace(v.Veterinarian) == "" &&
		strings.TrimSpace(v.ConsultReason) == "" &&
		strings.TrimSpace(v.Observations) == ""
}

// Text is the flat rendering of a Record as persisted and displayed.
type Text struct {
	Veterinarian  string `json:"veterinarian"`
	ConsultReason string `json:"consult_reason"`
	Observations  string `json:"observations"`
}

// VisitDate formats t as a day/month/year date in loc.
func VisitDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// AppendVisit returns existing with one more entry per field, taken from v
// and dated visitDate. existing is not modified.
func AppendVisit(existing Record, v Visit, visitDate string) Record {
	return Record{
		Veterinarian:  existing.Veterinarian.append(Entry{Date: visitDate, Text: v.Veterinarian}),
		ConsultReason: existing.ConsultReason.append(Entry{Date: visitDate, Text: v.ConsultReason}),
		Observations:  existing.Observations.append(Entry{Date: visitDate, Text: v.Observations}),
	}
}

// Visits returns the number of visits appended to the record.
func (r Record) Visits() int {
	n := 0
	for _, e := range r.Observations {
		if !e.Raw {
			n++
		}
	}
	return n
}

// Text renders the record as newline-joined text.
func (r Record) Text() Text {
	return Text{
		Veterinarian:  r.Veterinarian.join(plain),
		ConsultReason: r.ConsultReason.join(plain),
		Observations:  r.Observations.join(dated),
	}
}

// FromText wraps text written before entry logs existed. Each non-empty field
// becomes a single raw entry so it is carried forward unchanged.
func FromText(t Text) Record {
	return Record{
		Veterinarian:  rawLog(t.Veterinarian),
		ConsultReason: rawLog(t.ConsultReason),
		Observations:  rawLog(t.Observations),
	}
}

func rawLog(s string) Log {
	if s == "" {
		return nil
	}
	return Log{{Text: s, Raw: true}}
}

func (l Log) append(e Entry) Log {
	out := make(Log, len(l), len(l)+1)
	copy(out, l)
	return append(out, e)
}

func plain(e Entry) string {
	return e.Text
}

func dated(e Entry) string {
	if e.Raw {
		return e.Text
	}
	return "[" + e.Date + "] " + e.Text
}

// join folds the log the same way each visit extends the stored text: the
// first non-empty piece starts the field, later pieces follow a newline.
func (l Log) join(render func(Entry) string) string {
	var b strings.Builder
	for _, e := range l {
		piece := render(e)
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(piece)
	}
	return b.String()
}
