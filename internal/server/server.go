package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/funvibe/funterm/internal/engine"
	"github.com/funvibe/funterm/internal/match"
	"github.com/funvibe/funterm/internal/path"
	"github.com/funvibe/funterm/internal/prettyprinter"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

type handlerFunc func(ctx context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error)

// Server serves TermService over one shared engine.
type Server struct {
	engine   *engine.Engine
	service  *desc.ServiceDescriptor
	metrics  *Metrics
	logger   *slog.Logger
	grpc     *grpc.Server
	handlers map[string]handlerFunc
}

// New builds a server for eng. The metrics are registered with reg
// unless reg is nil. Extra grpc options are passed to grpc.NewServer.
func New(eng *engine.Engine, reg prometheus.Registerer, opts ...grpc.ServerOption) (*Server, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return nil, err
	}
	s := &Server{
		engine:  eng,
		service: sd,
		metrics: NewMetrics(),
		logger:  eng.Logger().With("component", "server"),
	}
	if reg != nil {
		if err := s.metrics.Register(reg); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	s.handlers = map[string]handlerFunc{
		"Parse":        s.parse,
		"Match":        s.match,
		"MatchPattern": s.matchPattern,
		"Substitute":   s.substitute,
		"Navigate":     s.navigate,
		"FreeVars":     s.freeVars,
	}

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.metrics.unaryInterceptor)}, opts...)
	s.grpc = grpc.NewServer(opts...)
	s.grpc.RegisterService(s.serviceDesc(), s)
	return s, nil
}

func (s *Server) Metrics() *Metrics        { return s.metrics }
func (s *Server) GRPCServer() *grpc.Server { return s.grpc }

func (s *Server) serviceDesc() *grpc.ServiceDesc {
	sd := &grpc.ServiceDesc{
		ServiceName: s.service.GetFullyQualifiedName(),
		HandlerType: (*any)(nil),
		Metadata:    s.service.GetFile().GetName(),
	}
	for _, method := range s.service.GetMethods() {
		if method.IsClientStreaming() || method.IsServerStreaming() {
			continue
		}
		md := method
		full := fullMethod(s.service, md.GetName())
		sd.Methods = append(sd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := dynamic.NewMessage(md.GetInputType())
				if err := dec(in); err != nil {
					return nil, err
				}
				h := srv.(*Server)
				if interceptor == nil {
					return h.handleUnary(ctx, md, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
				return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
					return h.handleUnary(ctx, md, req.(*dynamic.Message))
				})
			},
		})
	}
	return sd
}

func (s *Server) handleUnary(ctx context.Context, md *desc.MethodDescriptor, in *dynamic.Message) (any, error) {
	h, ok := s.handlers[md.GetName()]
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", md.GetName())
	}
	out, err := h(ctx, in, md.GetOutputType())
	if err != nil {
		s.logger.Debug("request failed", "method", md.GetName(), "error", err)
		return nil, toStatus(err)
	}
	return out, nil
}

// EnableReflection registers the gRPC reflection service. The service
// descriptor is added to the global protobuf registry for it. Call before
// Serve.
func (s *Server) EnableReflection() error {
	if err := registerFile(); err != nil {
		return err
	}
	reflection.Register(s.grpc)
	return nil
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping term service")
			s.grpc.GracefulStop()
		case <-stopped:
		}
	}()
	defer close(stopped)

	s.logger.Info("serving term service", "address", lis.Addr().String())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, lis)
}

// toStatus maps engine errors to gRPC status codes.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	var sizeErr *engine.SizeError
	if errors.As(err, &sizeErr) {
		return status.Error(codes.ResourceExhausted, err.Error())
	}
	return status.Error(codes.InvalidArgument, err.Error())
}

func (s *Server) parseField(in *dynamic.Message, field string) (term.Term, error) {
	t, err := s.engine.Parse(getString(in, field))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func (s *Server) parse(_ context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error) {
	t, err := s.parseField(in, "text")
	if err != nil {
		return nil, err
	}
	opts := s.engine.DisplayOptions()
	opts.Unicode = opts.Unicode || getBool(in, "unicode")
	reply := ParseReply{
		Canonical: t.CanonicalString(),
		Display:   prettyprinter.Display(t, opts),
		Size:      term.Size(t),
		FreeVars:  term.FreeNames(t),
	}
	return reply.encode(out), nil
}

func bindingsOf(s subst.Subst) []Binding {
	var out []Binding
	for _, name := range s.Names() {
		out = append(out, Binding{Name: name, Value: s[name].CanonicalString()})
	}
	return out
}

func (s *Server) matchTerms(in *dynamic.Message) (target, schema term.Term, err error) {
	if target, err = s.parseField(in, "target"); err != nil {
		return nil, nil, err
	}
	if schema, err = s.parseField(in, "schema"); err != nil {
		return nil, nil, err
	}
	return target, schema, nil
}

func (s *Server) match(_ context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error) {
	target, schema, err := s.matchTerms(in)
	if err != nil {
		return nil, err
	}
	var reply MatchReply
	if r, ok := s.engine.Match(target, schema); ok {
		reply = matchReply(r)
	}
	return reply.encode(out), nil
}

func matchReply(r *match.Result) MatchReply {
	reply := MatchReply{Matched: true, Bindings: bindingsOf(r.Subst)}
	names := make([]string, 0, len(r.Expansions))
	for name := range r.Expansions {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		reply.Expansions = append(reply.Expansions, Expansion{Name: name, Count: r.Expansions[name]})
	}
	return reply
}

func (s *Server) matchPattern(_ context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error) {
	target, pattern, err := s.matchTerms(in)
	if err != nil {
		return nil, err
	}
	var reply MatchReply
	if sub, ok := s.engine.MatchPattern(target, pattern); ok {
		reply = MatchReply{Matched: true, Bindings: bindingsOf(sub)}
	}
	return reply.encode(out), nil
}

func (s *Server) substitute(_ context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error) {
	t, err := s.parseField(in, "term")
	if err != nil {
		return nil, err
	}
	sub := make(subst.Subst)
	for _, b := range readBindings(in, "bindings") {
		if !term.IsVariableName(b.Name) {
			return nil, status.Errorf(codes.InvalidArgument, "binding %q: not a variable name", b.Name)
		}
		value, err := s.engine.Parse(b.Value)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.Name, err)
		}
		sub[b.Name] = value
	}
	result := s.engine.Substitute(t, sub)
	reply := TermReply{Canonical: result.CanonicalString(), Display: s.engine.Display(result)}
	return reply.encode(out), nil
}

func (s *Server) navigate(_ context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error) {
	t, err := s.parseField(in, "term")
	if err != nil {
		return nil, err
	}
	p, err := path.Parse(getString(in, "path"))
	if err != nil {
		return nil, err
	}
	sub, err := s.engine.At(t, p)
	if err != nil {
		return nil, err
	}
	structural, err := path.Expand(t, p)
	if err != nil {
		return nil, err
	}
	pretty, err := s.engine.Prettify(t, structural)
	if err != nil {
		return nil, err
	}
	reply := NavigateReply{
		Canonical:  sub.CanonicalString(),
		Display:    s.engine.Display(sub),
		Path:       structural.String(),
		PrettyPath: pretty.String(),
	}
	return reply.encode(out), nil
}

func (s *Server) freeVars(_ context.Context, in *dynamic.Message, out *desc.MessageDescriptor) (*dynamic.Message, error) {
	t, err := s.parseField(in, "term")
	if err != nil {
		return nil, err
	}
	reply := FreeVarsReply{
		Names:        s.engine.FreeVars(t),
		MathVars:     s.engine.MathVars(t),
		NewConstants: s.engine.NewConstants(t),
	}
	return reply.encode(out), nil
}
