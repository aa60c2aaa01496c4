package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/soap"
	"roamhub/backend/services/hub-service/internal/auth"
)

// ErrUnsupportedOperation is returned for a payload no handler is registered for.
var ErrUnsupportedOperation = errors.New("dispatch: unsupported operation")

// HandlerFunc processes the payload element of a request and returns the
// response payload. Protocol failures belong in the response; an error means
// the hub could not answer at all.
type HandlerFunc func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error)

// Router dispatches OICP operations to handlers.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter returns router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Register attaches handler to the payload element name.
func (r *Router) Register(operation string, handler HandlerFunc) {
	r.handlers[operation] = handler
}

// Operations lists registered operation names.
func (r *Router) Operations() []string {
	out := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		out = append(out, op)
	}
	return out
}

// Route executes handler for envelope payload.
func (r *Router) Route(ctx context.Context, partner auth.Partner, env *soap.Envelope) (*etree.Element, error) {
	handler, ok := r.handlers[env.Operation()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, env.Operation())
	}
	return handler(ctx, partner, env.Payload())
}

// MessageLog stores raw exchanged messages.
type MessageLog interface {
	Save(ctx context.Context, partner, direction, operation string, payload []byte) error
}

// Reply is an encoded response envelope.
type Reply struct {
	Body    []byte
	Version soap.Version
	// Fault is set when Body carries a SOAP fault.
	Fault *soap.Fault
}

// Processor ties together envelope parsing, routing, and response encoding.
type Processor struct {
	router *Router
	log    MessageLog
	logger *zap.Logger
}

// NewProcessor builds Processor; log may be nil.
func NewProcessor(router *Router, log MessageLog, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{router: router, log: log, logger: logger}
}

// Process handles a raw request envelope and returns the response envelope in
// the same SOAP version.
func (p *Processor) Process(ctx context.Context, partner auth.Partner, raw []byte) (Reply, error) {
	env, err := soap.Parse(raw)
	if err != nil {
		p.logger.Warn("unreadable envelope", zap.String("partner", partner.Name), zap.Error(err))
		code := soap.FaultClient
		if errors.Is(err, soap.ErrVersionMismatch) {
			code = soap.FaultVersionMismatch
		}
		return p.fault(soap.V11, soap.Fault{Code: code, Message: err.Error()})
	}

	operation := env.Operation()
	p.save(ctx, partner, "incoming", operation, raw)

	resp, err := p.router.Route(ctx, partner, env)
	if err != nil {
		if errors.Is(err, ErrUnsupportedOperation) {
			p.logger.Warn("unsupported operation", zap.String("operation", operation), zap.String("partner", partner.Name))
			return p.fault(env.Version, soap.Fault{Code: soap.FaultClient, Message: err.Error()})
		}
		p.logger.Error("oicp handler failed", zap.String("operation", operation), zap.Error(err))
		return p.fault(env.Version, soap.Fault{Code: soap.FaultServer, Message: "internal error"})
	}

	body, err := soap.Wrap(env.Version, resp, oicp.Namespaces...)
	if err != nil {
		p.logger.Error("encode oicp response failed", zap.String("operation", operation), zap.Error(err))
		return Reply{}, err
	}
	p.save(ctx, partner, "outgoing", resp.Tag, body)
	return Reply{Body: body, Version: env.Version}, nil
}

func (p *Processor) fault(v soap.Version, f soap.Fault) (Reply, error) {
	body, err := f.Marshal(v)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Body: body, Version: v, Fault: &f}, nil
}

func (p *Processor) save(ctx context.Context, partner auth.Partner, direction, operation string, payload []byte) {
	if p.log == nil {
		return
	}
	if err := p.log.Save(ctx, partner.Name, direction, operation, payload); err != nil {
		p.logger.Warn("store oicp message failed", zap.String("direction", direction), zap.Error(err))
	}
}
