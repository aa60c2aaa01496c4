package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
	"roamhub/backend/services/hub-service/internal/auth"
)

// StatusCache is a fast lookup of current EVSE status in front of the store.
type StatusCache interface {
	Lookup(ctx context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error)
	Put(ctx context.Context, records []oicp.EVSEStatusRecord) error
	Remove(ctx context.Context, evseIDs []ids.EVSEID) error
}

// DirectoryService answers the push and pull operations of the EVSE directory.
type DirectoryService struct {
	store    DirectoryStore
	cache    StatusCache
	notifier Notifier
	logger   *zap.Logger
}

// NewDirectoryService builds the service; cache and notifier are optional.
func NewDirectoryService(store DirectoryStore, cache StatusCache, notifier Notifier, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{store: store, cache: cache, notifier: notifier, logger: logger}
}

// PushEVSEData merges a pushed EVSE data batch.
func (s *DirectoryService) PushEVSEData(ctx context.Context, partner auth.Partner, req oicp.PushEVSEDataRequest) oicp.Acknowledgement {
	op := replication.Operator{ID: req.Data.OperatorID(), Name: req.Data.OperatorName()}
	records := req.Data.Records()
	keys := make([]ids.EVSEID, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.EVSEID())
	}
	if ack, ok := checkOperator(partner, op.ID, keys); !ok {
		return ack
	}

	out, err := s.store.ApplyEVSEData(ctx, op, req.Action, records)
	if err != nil {
		return s.failure("push evse data", op.ID, err)
	}
	s.logger.Info("evse data pushed",
		zap.String("operator_id", op.ID.String()),
		zap.Stringer("outcome", out),
	)
	s.notify(ctx, dataEvents(out.Changes))
	return oicp.PositiveAck()
}

// PushEVSEStatus merges a pushed EVSE status batch.
func (s *DirectoryService) PushEVSEStatus(ctx context.Context, partner auth.Partner, req oicp.PushEVSEStatusRequest) oicp.Acknowledgement {
	op := replication.Operator{ID: req.Status.OperatorID(), Name: req.Status.OperatorName()}
	records := req.Status.Records()
	keys := make([]ids.EVSEID, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.EVSEID())
	}
	if ack, ok := checkOperator(partner, op.ID, keys); !ok {
		return ack
	}

	out, err := s.store.ApplyEVSEStatus(ctx, op, req.Action, records)
	if err != nil {
		return s.failure("push evse status", op.ID, err)
	}
	s.logger.Info("evse status pushed",
		zap.String("operator_id", op.ID.String()),
		zap.Stringer("outcome", out),
	)
	s.updateCache(ctx, out.Changes)
	s.notify(ctx, statusEvents(out.Changes))
	return oicp.PositiveAck()
}

// PullEVSEData returns the directory, or the changes since LastCall.
func (s *DirectoryService) PullEVSEData(ctx context.Context, partner auth.Partner, req oicp.PullEVSEDataRequest) oicp.EVSEDataResponse {
	if !partner.Represents(req.ProviderID) {
		return oicp.EVSEDataResponse{Status: statusPtr(oicp.CodeUnauthorizedAccess, "provider id does not match credentials")}
	}
	groups, err := s.store.EVSEData(ctx, req.LastCall)
	if err != nil {
		s.logger.Error("pull evse data failed", zap.Error(err))
		return oicp.EVSEDataResponse{Status: statusPtr(oicp.CodeHubDatabaseError, "")}
	}
	resp := oicp.EVSEDataResponse{Status: statusPtr(oicp.CodeSuccess, "")}
	for _, g := range groups {
		resp.Operators = append(resp.Operators, oicp.NewOperatorEVSEData(g.Operator.ID, g.Operator.Name, g.Records...))
	}
	return resp
}

// PullEVSEStatus returns current status grouped by operator, optionally filtered by status.
func (s *DirectoryService) PullEVSEStatus(ctx context.Context, partner auth.Partner, req oicp.PullEVSEStatusRequest) oicp.EVSEStatusResponse {
	if !partner.Represents(req.ProviderID) {
		return oicp.EVSEStatusResponse{Status: statusPtr(oicp.CodeUnauthorizedAccess, "provider id does not match credentials")}
	}
	groups, err := s.store.EVSEStatus(ctx)
	if err != nil {
		s.logger.Error("pull evse status failed", zap.Error(err))
		return oicp.EVSEStatusResponse{Status: statusPtr(oicp.CodeHubDatabaseError, "")}
	}
	resp := oicp.EVSEStatusResponse{Status: statusPtr(oicp.CodeSuccess, "")}
	for _, g := range groups {
		records := g.Records
		if req.Status != nil {
			records = records[:0:0]
			for _, r := range g.Records {
				if r.Status() == *req.Status {
					records = append(records, r)
				}
			}
		}
		if len(records) == 0 {
			continue
		}
		resp.Operators = append(resp.Operators, oicp.NewOperatorEVSEStatus(g.Operator.ID, g.Operator.Name, records...))
	}
	return resp
}

// PullEVSEStatusByID answers the status of up to MaxEVSEIDsPerRequest EVSEs in
// request order. Unknown EVSEs are reported as EvseNotFound.
func (s *DirectoryService) PullEVSEStatusByID(ctx context.Context, partner auth.Partner, req oicp.PullEVSEStatusByIDRequest) oicp.EVSEStatusByIDResponse {
	if !partner.Represents(req.ProviderID) {
		return oicp.EVSEStatusByIDResponse{Status: statusPtr(oicp.CodeUnauthorizedAccess, "provider id does not match credentials")}
	}
	if err := req.Validate(); err != nil {
		return oicp.EVSEStatusByIDResponse{Status: statusPtr(oicp.CodeDataError, err.Error())}
	}

	found := make(map[ids.EVSEID]oicp.EVSEStatusRecord, len(req.EVSEIDs))
	missing := req.EVSEIDs
	if s.cache != nil {
		cached, err := s.cache.Lookup(ctx, req.EVSEIDs)
		if err != nil {
			s.logger.Warn("status cache lookup failed", zap.Error(err))
		}
		missing = missing[:0:0]
		for _, id := range req.EVSEIDs {
			if r, ok := cached[id]; ok {
				found[id] = r
			} else {
				missing = append(missing, id)
			}
		}
	}

	if len(missing) > 0 {
		stored, err := s.store.EVSEStatusByID(ctx, missing)
		if err != nil {
			s.logger.Error("pull evse status by id failed", zap.Error(err))
			return oicp.EVSEStatusByIDResponse{Status: statusPtr(oicp.CodeHubDatabaseError, "")}
		}
		warm := make([]oicp.EVSEStatusRecord, 0, len(stored))
		for id, r := range stored {
			found[id] = r
			warm = append(warm, r)
		}
		if s.cache != nil && len(warm) > 0 {
			if err := s.cache.Put(ctx, warm); err != nil {
				s.logger.Warn("status cache warm-up failed", zap.Error(err))
			}
		}
	}

	resp := oicp.EVSEStatusByIDResponse{Status: statusPtr(oicp.CodeSuccess, "")}
	for _, id := range req.EVSEIDs {
		r, ok := found[id]
		if !ok {
			r = oicp.NewEVSEStatusRecord(id, oicp.EVSENotFound)
		}
		resp.Records = append(resp.Records, r)
	}
	return resp
}

func (s *DirectoryService) failure(op string, operator ids.OperatorID, err error) oicp.Acknowledgement {
	fields := []zap.Field{zap.String("operator_id", operator.String()), zap.Error(err)}
	switch {
	case errors.Is(err, replication.ErrConflict), errors.Is(err, replication.ErrUnknownAction):
		s.logger.Warn(op+" rejected", fields...)
		return oicp.NegativeAck(oicp.CodeDataError, oicp.WithDescription(err.Error()))
	default:
		s.logger.Error(op+" failed", fields...)
		return oicp.NegativeAck(oicp.CodeHubDatabaseError)
	}
}

func (s *DirectoryService) updateCache(ctx context.Context, changes []StatusChange) {
	if s.cache == nil || len(changes) == 0 {
		return
	}
	var put []oicp.EVSEStatusRecord
	var removed []ids.EVSEID
	for _, c := range changes {
		if c.Type == oicp.DeltaDelete {
			removed = append(removed, c.Record.EVSEID())
		} else {
			put = append(put, c.Record)
		}
	}
	if len(put) > 0 {
		if err := s.cache.Put(ctx, put); err != nil {
			s.logger.Warn("status cache update failed", zap.Error(err))
		}
	}
	if len(removed) > 0 {
		if err := s.cache.Remove(ctx, removed); err != nil {
			s.logger.Warn("status cache eviction failed", zap.Error(err))
		}
	}
}

func (s *DirectoryService) notify(ctx context.Context, events []ChangeEvent) {
	if s.notifier == nil || len(events) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, events); err != nil {
		s.logger.Warn("change notification failed", zap.Int("events", len(events)), zap.Error(err))
	}
}

// checkOperator answers 017 when partner may not act for operator and 018
// when an EVSE id does not belong to operator.
func checkOperator(partner auth.Partner, operator ids.OperatorID, evseIDs []ids.EVSEID) (oicp.Acknowledgement, bool) {
	if !partner.ActsFor(operator) {
		return oicp.NegativeAck(oicp.CodeUnauthorizedAccess, oicp.WithDescription("operator id does not match credentials")), false
	}
	for _, id := range evseIDs {
		if !BelongsTo(id, operator) {
			return oicp.NegativeAck(oicp.CodeInconsistentEVSEID, oicp.WithDescription(fmt.Sprintf("%s is not an EVSE of %s", id, operator))), false
		}
	}
	return oicp.Acknowledgement{}, true
}

// BelongsTo reports whether the EVSE id starts with the operator id. ISO ids
// may drop their '*' separators, so they are compared without them and the
// operator part must be followed by the 'E' marker. DIN ids are compared by
// country and operator segment.
func BelongsTo(evse ids.EVSEID, operator ids.OperatorID) bool {
	e, o := evse.String(), operator.String()
	if o == "" {
		return false
	}
	if isDIN(o) {
		ec, eo, ok := dinSegments(e)
		if !ok {
			return false
		}
		oc, oo, ok := dinSegments(o)
		return ok && ec == oc && eo == oo
	}
	ce, co := strings.ReplaceAll(e, "*", ""), strings.ReplaceAll(o, "*", "")
	return len(ce) > len(co) && strings.HasPrefix(ce, co) && ce[len(co)] == 'E'
}

func isDIN(id string) bool {
	return id[0] == '+' || (id[0] >= '0' && id[0] <= '9')
}

func dinSegments(id string) (country, operator string, ok bool) {
	parts := strings.SplitN(strings.TrimPrefix(id, "+"), "*", 3)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func statusPtr(code oicp.ResultCode, description string) *oicp.StatusCode {
	s := oicp.NewStatusCode(code, description, "")
	return &s
}
