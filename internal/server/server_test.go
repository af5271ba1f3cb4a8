package server

import (
	"context"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/engine"
)

// startServer serves a fresh engine over an in-memory listener and
// returns the server and a connected client.
func startServer(t *testing.T, cfg *config.Config) (*Server, *Client) {
	t.Helper()
	eng, err := engine.New(cfg)
	require.NoError(t, err)
	srv, err := New(eng, prometheus.NewRegistry())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		cancel()
		assert.NoError(t, <-done)
	})

	client, err := NewClient(conn)
	require.NoError(t, err)
	return srv, client
}

func TestServiceDescriptor(t *testing.T) {
	sd, err := ServiceDescriptor()
	require.NoError(t, err)
	assert.Equal(t, ServiceName, sd.GetFullyQualifiedName())
	var names []string
	for _, md := range sd.GetMethods() {
		names = append(names, md.GetName())
	}
	assert.Equal(t, []string{"Parse", "Match", "MatchPattern", "Substitute", "Navigate", "FreeVars"}, names)
}

func TestParse(t *testing.T) {
	srv, client := startServer(t, nil)
	ctx := context.Background()

	reply, err := client.Parse(ctx, "a + b*c", false)
	require.NoError(t, err)
	assert.Equal(t, "((+ a) ((* b) c))", reply.Canonical)
	assert.Equal(t, "(a + (b * c))", reply.Display)
	assert.Equal(t, 9, reply.Size)
	assert.Equal(t, []string{"a", "b", "c"}, reply.FreeVars)

	reply, err = client.Parse(ctx, "p & q", true)
	require.NoError(t, err)
	assert.Equal(t, "(p ∧ q)", reply.Display)
	assert.Equal(t, []string{"p", "q"}, reply.FreeVars)

	_, err = client.Parse(ctx, "a +", false)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	requests := srv.Metrics().requests
	assert.Equal(t, 2.0, testutil.ToFloat64(requests.WithLabelValues("Parse", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("Parse", "InvalidArgument")))
	assert.Equal(t, 1, testutil.CollectAndCount(srv.Metrics().duration))
}

func TestMatch(t *testing.T) {
	_, client := startServer(t, nil)
	ctx := context.Background()

	reply, err := client.Match(ctx, "{x. g x 7} + g 3 7", "{x. P x} + P 3")
	require.NoError(t, err)
	require.True(t, reply.Matched)
	assert.Equal(t, []Binding{{Name: "P", Value: "{x. ((g x) 7)}"}}, reply.Bindings)
	assert.Equal(t, []Expansion{{Name: "P", Count: 1}}, reply.Expansions)

	reply, err = client.Match(ctx, "{x. g x 7} + g 4 7", "{x. P x} + P 3")
	require.NoError(t, err)
	assert.False(t, reply.Matched)
	assert.Empty(t, reply.Bindings)

	reply, err = client.MatchPattern(ctx, "f a + f a", "x + x")
	require.NoError(t, err)
	assert.True(t, reply.Matched)
	assert.Equal(t, []Binding{{Name: "x", Value: "(f a)"}}, reply.Bindings)

	reply, err = client.MatchPattern(ctx, "a + b", "x + x")
	require.NoError(t, err)
	assert.False(t, reply.Matched)

	_, err = client.Match(ctx, "a", "(")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSubstitute(t *testing.T) {
	_, client := startServer(t, nil)
	ctx := context.Background()

	reply, err := client.Substitute(ctx, "x + y", []Binding{{Name: "x", Value: "a * 2"}})
	require.NoError(t, err)
	assert.Equal(t, "((+ ((* a) 2)) y)", reply.Canonical)
	assert.Equal(t, "((a * 2) + y)", reply.Display)

	reply, err = client.Substitute(ctx, "{y. x + y}", []Binding{{Name: "x", Value: "y"}})
	require.NoError(t, err)
	assert.Equal(t, "{y_1. ((+ y) y_1)}", reply.Canonical)

	_, err = client.Substitute(ctx, "x", []Binding{{Name: "foo", Value: "1"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNavigate(t *testing.T) {
	_, client := startServer(t, nil)
	ctx := context.Background()

	reply, err := client.Navigate(ctx, "a + neg (b * c)", "/right/arg/left")
	require.NoError(t, err)
	assert.Equal(t, "b", reply.Canonical)
	assert.Equal(t, "/arg/arg/fn/arg", reply.Path)
	assert.Equal(t, "/right/arg/left", reply.PrettyPath)

	reply, err = client.Navigate(ctx, "p => q", "/main")
	require.NoError(t, err)
	assert.Equal(t, "q", reply.Canonical)
	assert.Equal(t, "/arg", reply.Path)

	for _, bad := range []string{"/left/left", "/nope"} {
		_, err = client.Navigate(ctx, "a + b", bad)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), bad)
	}
}

func TestFreeVars(t *testing.T) {
	_, client := startServer(t, nil)

	reply, err := client.FreeVars(context.Background(), "sin x + y * 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, reply.Names)
	assert.Equal(t, []string{"y"}, reply.MathVars)
	assert.Equal(t, []string{"sin"}, reply.NewConstants)
}

func TestSizeLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxTermSize = 3
	_, client := startServer(t, cfg)

	_, err := client.Parse(context.Background(), "a + b", false)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestMetricsRegisterTwice(t *testing.T) {
	eng, err := engine.New(nil)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	_, err = New(eng, reg)
	require.NoError(t, err)
	_, err = New(eng, reg)
	assert.Error(t, err, "collectors are already registered")
}

func TestEnableReflection(t *testing.T) {
	eng, err := engine.New(nil)
	require.NoError(t, err)
	srv, err := New(eng, nil)
	require.NoError(t, err)
	require.NoError(t, srv.EnableReflection())

	d, err := protoregistry.GlobalFiles.FindDescriptorByName(ServiceName)
	require.NoError(t, err)
	assert.Equal(t, protoreflect.FullName(ServiceName), d.FullName())

	info := srv.GRPCServer().GetServiceInfo()
	assert.Contains(t, info, ServiceName)
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")
	assert.Len(t, info[ServiceName].Methods, 6)

	// A second server shares the registered file.
	other, err := New(eng, nil)
	require.NoError(t, err)
	assert.NoError(t, other.EnableReflection())
}
