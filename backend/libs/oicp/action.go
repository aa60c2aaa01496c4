package oicp

import (
	"time"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// ActionType tells the receiver of a push how to combine the payload with what it already holds.
type ActionType string

const (
	ActionFullLoad ActionType = "fullLoad"
	ActionUpdate   ActionType = "update"
	ActionInsert   ActionType = "insert"
	ActionDelete   ActionType = "delete"
)

var parseActionType = xmlcodec.Enum("action type", ActionFullLoad, ActionUpdate, ActionInsert, ActionDelete)

// ParseActionType parses the wire value of an action.
func ParseActionType(text string) (ActionType, error) {
	return parseActionType(text)
}

// IsIncremental reports whether a is relative to the receiver's current set.
func (a ActionType) IsIncremental() bool {
	return a != ActionFullLoad
}

// DeltaType marks how a single record differs from an earlier snapshot.
type DeltaType string

const (
	DeltaUpdate DeltaType = "update"
	DeltaInsert DeltaType = "insert"
	DeltaDelete DeltaType = "delete"
)

var parseDeltaType = xmlcodec.Enum("delta type", DeltaUpdate, DeltaInsert, DeltaDelete)

// Delta is the optional per-record change annotation. Either field may be unset.
type Delta struct {
	Type       DeltaType
	LastUpdate time.Time
}

// IsZero reports whether no annotation is set.
func (d Delta) IsZero() bool {
	return d.Type == "" && d.LastUpdate.IsZero()
}

func parseDelta(e *etree.Element) (*Delta, error) {
	deltaType, err := xmlcodec.OptionalAttr(e, "deltaType", parseDeltaType)
	if err != nil {
		return nil, err
	}
	lastUpdate, err := xmlcodec.OptionalAttr(e, "lastUpdate", xmlcodec.Time)
	if err != nil {
		return nil, err
	}
	if deltaType == nil && lastUpdate == nil {
		return nil, nil
	}
	d := &Delta{}
	if deltaType != nil {
		d.Type = *deltaType
	}
	if lastUpdate != nil {
		d.LastUpdate = *lastUpdate
	}
	return d, nil
}

func writeDelta(e *etree.Element, d *Delta) {
	if d == nil {
		return
	}
	if d.Type != "" {
		xmlcodec.Attr(e, "deltaType", string(d.Type))
	}
	if !d.LastUpdate.IsZero() {
		xmlcodec.Attr(e, "lastUpdate", xmlcodec.FormatTime(d.LastUpdate))
	}
}

func deltaOf(d *Delta) (Delta, bool) {
	if d == nil {
		return Delta{}, false
	}
	return *d, true
}

func newDelta(d Delta) *Delta {
	if d.IsZero() {
		return nil
	}
	d.LastUpdate = d.LastUpdate.UTC()
	return &d
}
