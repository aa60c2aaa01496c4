package cli

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// DiffPushes compares two push documents of one operator and returns an
// incremental push carrying the delta annotated differences, stamped at.
func DiffPushes(prev, next []byte, at time.Time) (*etree.Element, int, error) {
	prevRoot, err := messageRoot(prev)
	if err != nil {
		return nil, 0, err
	}
	nextRoot, err := messageRoot(next)
	if err != nil {
		return nil, 0, err
	}
	if prevRoot != nextRoot {
		return nil, 0, fmt.Errorf("cannot compare %s with %s", prevRoot, nextRoot)
	}

	switch prevRoot {
	case "eRoamingPushEvseStatus":
		return diffStatus(prev, next, at)
	case "eRoamingPushEvseData":
		return diffData(prev, next, at)
	default:
		return nil, 0, fmt.Errorf("diff needs push documents, got %s", prevRoot)
	}
}

func diffStatus(prev, next []byte, at time.Time) (*etree.Element, int, error) {
	a, err := oicp.ParsePushEVSEStatusXML(prev, xmlcodec.FailFast, nil)
	if err != nil {
		return nil, 0, err
	}
	b, err := oicp.ParsePushEVSEStatusXML(next, xmlcodec.FailFast, nil)
	if err != nil {
		return nil, 0, err
	}
	if err := sameOperator(a.Status.OperatorID(), b.Status.OperatorID()); err != nil {
		return nil, 0, err
	}
	changes := replication.Diff[ids.EVSEID](a.Status.Records(), b.Status.Records(), at)
	req := oicp.PushEVSEStatusRequest{
		Action: oicp.ActionUpdate,
		Status: oicp.NewOperatorEVSEStatus(b.Status.OperatorID(), b.Status.OperatorName(), changes...),
	}
	return req.Element(), len(changes), nil
}

func diffData(prev, next []byte, at time.Time) (*etree.Element, int, error) {
	a, err := oicp.ParsePushEVSEDataXML(prev, xmlcodec.FailFast, nil)
	if err != nil {
		return nil, 0, err
	}
	b, err := oicp.ParsePushEVSEDataXML(next, xmlcodec.FailFast, nil)
	if err != nil {
		return nil, 0, err
	}
	if err := sameOperator(a.Data.OperatorID(), b.Data.OperatorID()); err != nil {
		return nil, 0, err
	}
	changes := replication.Diff[ids.EVSEID](a.Data.Records(), b.Data.Records(), at)
	req := oicp.PushEVSEDataRequest{
		Action: oicp.ActionUpdate,
		Data:   oicp.NewOperatorEVSEData(b.Data.OperatorID(), b.Data.OperatorName(), changes...),
	}
	return req.Element(), len(changes), nil
}

func sameOperator(a, b ids.OperatorID) error {
	if a != b {
		return fmt.Errorf("documents belong to different operators: %s and %s", a, b)
	}
	return nil
}
