package service

import (
	"context"
	"errors"
	"time"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/replication"
)

// Directory kinds carried by change events.
const (
	KindEVSEData   = "evse_data"
	KindEVSEStatus = "evse_status"
)

// ChangeEvent describes one record added, replaced or removed by a push.
type ChangeEvent struct {
	Kind       string         `json:"kind"`
	OperatorID string         `json:"operator_id"`
	EVSEID     string         `json:"evse_id"`
	Type       oicp.DeltaType `json:"delta_type"`
	Status     string         `json:"status,omitempty"`
	At         time.Time      `json:"at"`
	// Fragment is the delta annotated record as XML.
	Fragment string `json:"-"`
}

// Notifier receives directory changes after they were stored.
type Notifier interface {
	Notify(ctx context.Context, events []ChangeEvent) error
}

// Notifiers fans events out to every notifier and joins their errors.
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, events []ChangeEvent) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.Notify(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func statusEvents(changes []replication.Change[oicp.EVSEStatusRecord]) []ChangeEvent {
	out := make([]ChangeEvent, 0, len(changes))
	for _, c := range changes {
		out = append(out, ChangeEvent{
			Kind:       KindEVSEStatus,
			OperatorID: c.Operator.String(),
			EVSEID:     c.Record.EVSEID().String(),
			Type:       c.Type,
			Status:     string(c.Record.Status()),
			At:         c.At,
			Fragment:   fragment(c.Record.WithDelta(oicp.Delta{Type: c.Type, LastUpdate: c.At})),
		})
	}
	return out
}

func dataEvents(changes []replication.Change[oicp.EVSEDataRecord]) []ChangeEvent {
	out := make([]ChangeEvent, 0, len(changes))
	for _, c := range changes {
		out = append(out, ChangeEvent{
			Kind:       KindEVSEData,
			OperatorID: c.Operator.String(),
			EVSEID:     c.Record.EVSEID().String(),
			Type:       c.Type,
			At:         c.At,
		})
	}
	return out
}

func fragment(r oicp.EVSEStatusRecord) string {
	data, err := r.Marshal()
	if err != nil {
		return ""
	}
	return string(data)
}
