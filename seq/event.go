package seq

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidField reports a rename request against a field that does not
// exist or that may never be renamed (the event time).
var ErrInvalidField = errors.New("invalid event field")

// Renameable event fields. Time is deliberately absent: merged sequences
// average event times, so a time-based identity would break merging.
const (
	FieldObject    = "object"
	FieldAttribute = "attribute"
	FieldKind      = "kind"
)

// Event is an atomic observation from one simulated history: object X's
// attribute A changed, of kind K, at time T. Time is optional (nil when the
// backend did not report one) and is excluded from equality so that merged,
// time-averaged sequences still compare equal to their sources.
type Event struct {
	Object    string
	Attribute string
	Time      *float64
	Kind      string
}

// CheckRenameField rejects rename requests against the time field or any
// name that is not a renameable field.
func CheckRenameField(field string) error {
	switch field {
	case FieldObject, FieldAttribute, FieldKind:
		return nil
	case "time":
		return fmt.Errorf("cannot rename %q: %w", field, ErrInvalidField)
	default:
		return fmt.Errorf("unknown field %q (want object, attribute or kind): %w", field, ErrInvalidField)
	}
}

// NewEvent builds an Event with a known occurrence time.
func NewEvent(object, attribute string, time float64, kind string) Event {
	t := time
	return Event{Object: object, Attribute: attribute, Time: &t, Kind: kind}
}

// Name derives the dotted event name "object.attribute". When one side is
// empty the other stands alone; when both are empty the name is empty and
// the event never matches any pattern.
func (e *Event) Name() string {
	switch {
	case e.Object != "" && e.Attribute != "":
		return e.Object + "." + e.Attribute
	case e.Object != "":
		return e.Object
	default:
		return e.Attribute
	}
}

// Equal compares two events by (object, attribute, kind). Time never
// participates.
func (e *Event) Equal(other *Event) bool {
	return e.Object == other.Object &&
		e.Attribute == other.Attribute &&
		e.Kind == other.Kind
}

// Clone returns an independent copy, including the optional time.
func (e *Event) Clone() Event {
	out := *e
	if e.Time != nil {
		t := *e.Time
		out.Time = &t
	}
	return out
}

// Rename applies a regex substitution to one of the renameable fields.
// Backreferences in targetPat use the \1 form. A pattern that does not match
// leaves the event unchanged, as does an empty field value. With
// inPlace=false the receiver is untouched and an independent copy is
// returned; with inPlace=true the receiver itself is mutated and returned.
func (e *Event) Rename(field, sourcePat, targetPat string, inPlace bool) (*Event, error) {
	var slot *string
	target := e
	if !inPlace {
		c := e.Clone()
		target = &c
	}

	if err := CheckRenameField(field); err != nil {
		return nil, err
	}
	switch field {
	case FieldObject:
		slot = &target.Object
	case FieldAttribute:
		slot = &target.Attribute
	case FieldKind:
		slot = &target.Kind
	}

	re, err := regexp.Compile(sourcePat)
	if err != nil {
		return nil, fmt.Errorf("compiling rename pattern %q: %w", sourcePat, err)
	}
	if *slot != "" {
		*slot = re.ReplaceAllString(*slot, templateFromBackrefs(targetPat))
	}
	return target, nil
}
