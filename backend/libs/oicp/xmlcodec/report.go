package xmlcodec

import (
	"sync"
	"time"

	"github.com/beevik/etree"
)

// ErrorFunc receives non-fatal codec errors together with the offending node or text.
// A nil ErrorFunc discards reports.
type ErrorFunc func(at time.Time, node string, err error)

// Report calls f when it is set.
func (f ErrorFunc) Report(node string, err error) {
	if f == nil || err == nil {
		return
	}
	f(time.Now().UTC(), node, err)
}

// ReportElement reports err against the serialized form of e.
func (f ErrorFunc) ReportElement(e *etree.Element, err error) {
	if f == nil {
		return
	}
	f.Report(NodeString(e), err)
}

// Report is one collected codec error.
type Report struct {
	At   time.Time
	Node string
	Err  error
}

// Collector accumulates reports; it is safe for concurrent use so a caller may
// fan out record parsing.
type Collector struct {
	mu      sync.Mutex
	reports []Report
	next    ErrorFunc
}

// NewCollector returns a collector that also forwards every report to next (optional).
func NewCollector(next ErrorFunc) *Collector {
	return &Collector{next: next}
}

// Func returns the ErrorFunc feeding the collector.
func (c *Collector) Func() ErrorFunc {
	return func(at time.Time, node string, err error) {
		c.mu.Lock()
		c.reports = append(c.reports, Report{At: at, Node: node, Err: err})
		c.mu.Unlock()
		if c.next != nil {
			c.next(at, node, err)
		}
	}
}

// Reports returns a copy of the collected reports.
func (c *Collector) Reports() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Len returns the number of collected reports.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

// NodeString serializes e for diagnostics; it falls back to the element path.
func NodeString(e *etree.Element) string {
	if e == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return e.GetPath()
	}
	return s
}
