package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/services/hub-service/internal/auth"
)

// Policy lists the credentials the hub accepts on behalf of its provider.
type Policy struct {
	ProviderID ids.ProviderID
	UIDs       map[ids.UID]struct{}
	Contracts  map[ids.EVCOID]struct{}
	PINs       map[ids.EVCOID]string
}

// NewPolicy parses configured credentials.
func NewPolicy(providerID string, uids, contracts []string, pins map[string]string) (Policy, error) {
	provider, err := ids.ParseProviderID(providerID)
	if err != nil {
		return Policy{}, err
	}
	p := Policy{
		ProviderID: provider,
		UIDs:       make(map[ids.UID]struct{}, len(uids)),
		Contracts:  make(map[ids.EVCOID]struct{}, len(contracts)),
		PINs:       make(map[ids.EVCOID]string, len(pins)),
	}
	for _, s := range uids {
		uid, err := ids.ParseUID(s)
		if err != nil {
			return Policy{}, err
		}
		p.UIDs[uid] = struct{}{}
	}
	for _, s := range contracts {
		evco, err := ids.ParseEVCOID(s)
		if err != nil {
			return Policy{}, err
		}
		p.Contracts[evco] = struct{}{}
	}
	for s, pin := range pins {
		evco, err := ids.ParseEVCOID(s)
		if err != nil {
			return Policy{}, fmt.Errorf("qr pin: %w", err)
		}
		p.PINs[evco] = pin
	}
	return p, nil
}

// StatusLookup reads current EVSE status.
type StatusLookup interface {
	EVSEStatusByID(ctx context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error)
}

// Authorizer decides AuthorizeStart requests against a Policy.
type Authorizer struct {
	policy Policy
	status StatusLookup
	logger *zap.Logger
}

// NewAuthorizer returns an authorizer; status may be nil to skip the EVSE check.
func NewAuthorizer(policy Policy, status StatusLookup, logger *zap.Logger) *Authorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{policy: policy, status: status, logger: logger}
}

// AuthorizeStart answers whether the presented identification may start
// charging. A missing session id is allocated by the hub.
func (a *Authorizer) AuthorizeStart(ctx context.Context, partner auth.Partner, req oicp.AuthorizeStartRequest) oicp.AuthorizationStartResponse {
	resp := oicp.AuthorizationStartResponse{
		SessionID:        req.SessionID,
		PartnerSessionID: req.PartnerSessionID,
		ProviderID:       a.policy.ProviderID,
		Status:           oicp.NotAuthorized,
	}
	if resp.SessionID.IsZero() {
		resp.SessionID = ids.NewSessionID()
	}

	code := a.decide(ctx, partner, req)
	if code == oicp.CodeSuccess {
		resp.Status = oicp.Authorized
	}
	resp.StatusCode = oicp.NewStatusCode(code, "", "")

	a.logger.Info("authorize start",
		zap.String("session_id", resp.SessionID.String()),
		zap.String("operator_id", req.OperatorID.String()),
		zap.String("evse_id", req.EVSEID.String()),
		zap.Stringer("identification", req.Identification.Kind()),
		zap.String("status", string(resp.Status)),
		zap.Stringer("code", code),
	)
	return resp
}

func (a *Authorizer) decide(ctx context.Context, partner auth.Partner, req oicp.AuthorizeStartRequest) oicp.ResultCode {
	if !partner.ActsFor(req.OperatorID) {
		return oicp.CodeUnauthorizedAccess
	}
	if !req.EVSEID.IsZero() {
		if !BelongsTo(req.EVSEID, req.OperatorID) {
			return oicp.CodeInconsistentEVSEID
		}
		if code := a.evseState(ctx, req.EVSEID); code != oicp.CodeSuccess {
			return code
		}
	}

	id := req.Identification
	switch id.Kind() {
	case oicp.IdentificationRFID:
		uid, _ := id.UID()
		if _, ok := a.policy.UIDs[uid]; ok {
			return oicp.CodeSuccess
		}
		return oicp.CodeRFIDAuthenticationFailed
	case oicp.IdentificationQRCode:
		evco, _ := id.ContractID()
		if a.verifyPIN(evco, id) {
			return oicp.CodeSuccess
		}
		return oicp.CodeQRCodeAuthenticationFailed
	case oicp.IdentificationPlugAndCharge:
		if a.hasContract(id) {
			return oicp.CodeSuccess
		}
		return oicp.CodePLCAuthenticationFailed
	case oicp.IdentificationRemote:
		if a.hasContract(id) {
			return oicp.CodeSuccess
		}
		return oicp.CodeNoValidContract
	}
	return oicp.CodeNoPositiveAuthentication
}

func (a *Authorizer) evseState(ctx context.Context, evseID ids.EVSEID) oicp.ResultCode {
	if a.status == nil {
		return oicp.CodeSuccess
	}
	records, err := a.status.EVSEStatusByID(ctx, []ids.EVSEID{evseID})
	if err != nil {
		a.logger.Warn("evse status lookup failed", zap.String("evse_id", evseID.String()), zap.Error(err))
		return oicp.CodeSuccess
	}
	r, ok := records[evseID]
	if !ok {
		return oicp.CodeSuccess
	}
	switch r.Status() {
	case oicp.EVSEOutOfService:
		return oicp.CodeEVSEOutOfService
	case oicp.EVSEOccupied:
		return oicp.CodeEVSEAlreadyInUse
	}
	return oicp.CodeSuccess
}

func (a *Authorizer) hasContract(id oicp.Identification) bool {
	evco, _ := id.ContractID()
	_, ok := a.policy.Contracts[evco]
	return ok
}

func (a *Authorizer) verifyPIN(evco ids.EVCOID, id oicp.Identification) bool {
	want, ok := a.policy.PINs[evco]
	if !ok {
		return false
	}
	if pin, ok := id.PIN(); ok {
		return subtle.ConstantTimeCompare([]byte(pin), []byte(want)) == 1
	}
	if hashed, ok := id.HashedPIN(); ok {
		return hashed.Verify(want)
	}
	return false
}
