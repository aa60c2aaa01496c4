package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
	"roamhub/backend/services/hub-service/internal/auth"
)

var (
	gefOperator = ids.MustOperatorID("DE*GEF")
	otherOp     = ids.MustOperatorID("DE*ABC")
	epoch       = time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
)

func mustProvider(t *testing.T, s string) ids.ProviderID {
	t.Helper()
	id, err := ids.ParseProviderID(s)
	require.NoError(t, err)
	return id
}

func operatorPartner() auth.Partner {
	return auth.Partner{Name: "gef", OperatorID: gefOperator}
}

func providerPartner(t *testing.T) auth.Partner {
	t.Helper()
	return auth.Partner{Name: "gdf", ProviderID: mustProvider(t, "DE-GDF")}
}

func dataRecord(t *testing.T, evse string) oicp.EVSEDataRecord {
	t.Helper()
	r, err := oicp.EVSEDataRecordBuilder{
		EVSEID:          ids.MustEVSEID(evse),
		Address:         oicp.Address{Country: "DEU", City: "Berlin", Street: "Unter den Linden", HouseNum: "1"},
		Plugs:           []oicp.PlugType{oicp.PlugType2Outlet},
		Accessibility:   oicp.AccessFreePublic,
		HotlinePhoneNum: "+49301234567",
	}.Build()
	require.NoError(t, err)
	return r
}

func statusRecord(evse string, s oicp.EVSEStatusType) oicp.EVSEStatusRecord {
	return oicp.NewEVSEStatusRecord(ids.MustEVSEID(evse), s)
}

func pushStatus(action oicp.ActionType, op ids.OperatorID, records ...oicp.EVSEStatusRecord) oicp.PushEVSEStatusRequest {
	return oicp.PushEVSEStatusRequest{Action: action, Status: oicp.NewOperatorEVSEStatus(op, "GEF Charging", records...)}
}

type memoryCache struct {
	mu      sync.Mutex
	records map[ids.EVSEID]oicp.EVSEStatusRecord
	lookups int
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{records: make(map[ids.EVSEID]oicp.EVSEStatusRecord)}
}

func (c *memoryCache) Lookup(_ context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[ids.EVSEID]oicp.EVSEStatusRecord)
	for _, id := range evseIDs {
		if r, ok := c.records[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (c *memoryCache) Put(_ context.Context, records []oicp.EVSEStatusRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		c.records[r.EVSEID()] = r
	}
	return nil
}

func (c *memoryCache) Remove(_ context.Context, evseIDs []ids.EVSEID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range evseIDs {
		delete(c.records, id)
	}
	return nil
}

type recordingNotifier struct {
	events []ChangeEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, events []ChangeEvent) error {
	n.events = append(n.events, events...)
	return n.err
}

// failingStore fails every call with err.
type failingStore struct{ err error }

var errStoreDown = errors.New("store down")

func (f failingStore) ApplyEVSEData(context.Context, replication.Operator, oicp.ActionType, []oicp.EVSEDataRecord) (DataOutcome, error) {
	return DataOutcome{}, f.err
}

func (f failingStore) ApplyEVSEStatus(context.Context, replication.Operator, oicp.ActionType, []oicp.EVSEStatusRecord) (StatusOutcome, error) {
	return StatusOutcome{}, f.err
}

func (f failingStore) EVSEData(context.Context, *time.Time) ([]DataGroup, error) { return nil, f.err }
func (f failingStore) EVSEStatus(context.Context) ([]StatusGroup, error)         { return nil, f.err }

func (f failingStore) EVSEStatusByID(context.Context, []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error) {
	return nil, f.err
}

func operatorOf(id ids.OperatorID) replication.Operator {
	return replication.Operator{ID: id, Name: "GEF Charging"}
}
