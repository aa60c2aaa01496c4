package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
	"roamhub/backend/services/hub-service/internal/auth"
)

// CDRStore persists charge detail records. SaveCDR returns
// replication.ErrConflict for a session id it already holds.
type CDRStore interface {
	SaveCDR(ctx context.Context, operator ids.OperatorID, cdr oicp.ChargeDetailRecord) error
}

// CDRService accepts charge detail records from operators.
type CDRService struct {
	store  CDRStore
	logger *zap.Logger
}

func NewCDRService(store CDRStore, logger *zap.Logger) *CDRService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDRService{store: store, logger: logger}
}

// SendChargeDetailRecord stores cdr once per session and acknowledges it.
func (s *CDRService) SendChargeDetailRecord(ctx context.Context, partner auth.Partner, cdr oicp.ChargeDetailRecord) oicp.Acknowledgement {
	opts := []oicp.AckOption{oicp.WithSessionID(cdr.SessionID())}
	if !cdr.PartnerSessionID().IsZero() {
		opts = append(opts, oicp.WithPartnerSessionID(cdr.PartnerSessionID()))
	}

	if partner.OperatorID.IsZero() {
		return oicp.NegativeAck(oicp.CodeUnauthorizedAccess, append(opts, oicp.WithDescription("credentials carry no operator id"))...)
	}
	if !BelongsTo(cdr.EVSEID(), partner.OperatorID) {
		return oicp.NegativeAck(oicp.CodeInconsistentEVSEID,
			append(opts, oicp.WithDescription(fmt.Sprintf("%s is not an EVSE of %s", cdr.EVSEID(), partner.OperatorID)))...)
	}

	logger := s.logger.With(
		zap.String("session_id", cdr.SessionID().String()),
		zap.String("evse_id", cdr.EVSEID().String()),
	)
	if err := s.store.SaveCDR(ctx, partner.OperatorID, cdr); err != nil {
		if errors.Is(err, replication.ErrConflict) {
			logger.Warn("duplicate charge detail record")
			return oicp.NegativeAck(oicp.CodeDataError, append(opts, oicp.WithDescription("charge detail record already received"))...)
		}
		logger.Error("store charge detail record failed", zap.Error(err))
		return oicp.NegativeAck(oicp.CodeHubDatabaseError, opts...)
	}

	energy, _ := cdr.ConsumedEnergy()
	logger.Info("charge detail record received",
		zap.Duration("duration", cdr.Duration()),
		zap.Float64("energy_kwh", energy),
	)
	return oicp.PositiveAck(opts...)
}

// MemoryCDRStore keeps records in process keyed by session id.
type MemoryCDRStore struct {
	mu      sync.Mutex
	records map[ids.SessionID]oicp.ChargeDetailRecord
}

func NewMemoryCDRStore() *MemoryCDRStore {
	return &MemoryCDRStore{records: make(map[ids.SessionID]oicp.ChargeDetailRecord)}
}

func (m *MemoryCDRStore) SaveCDR(_ context.Context, _ ids.OperatorID, cdr oicp.ChargeDetailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[cdr.SessionID()]; ok {
		return fmt.Errorf("cdr %s: %w", cdr.SessionID(), replication.ErrConflict)
	}
	m.records[cdr.SessionID()] = cdr
	return nil
}

// Get returns the record stored for id.
func (m *MemoryCDRStore) Get(id ids.SessionID) (oicp.ChargeDetailRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cdr, ok := m.records[id]
	return cdr, ok
}
