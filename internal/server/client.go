package server

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
)

// Client calls TermService over an established connection.
type Client struct {
	conn    grpc.ClientConnInterface
	service *desc.ServiceDescriptor
}

func NewClient(conn grpc.ClientConnInterface) (*Client, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, service: sd}, nil
}

// invoke builds a request for method with fill and returns the reply.
func (c *Client) invoke(ctx context.Context, method string, fill func(req *dynamic.Message)) (*dynamic.Message, error) {
	md := c.service.FindMethodByName(method)
	if md == nil {
		return nil, fmt.Errorf("unknown method %s", method)
	}
	req := dynamic.NewMessage(md.GetInputType())
	fill(req)
	resp := dynamic.NewMessage(md.GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(c.service, method), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Parse(ctx context.Context, text string, unicode bool) (*ParseReply, error) {
	resp, err := c.invoke(ctx, "Parse", func(req *dynamic.Message) {
		req.SetFieldByName("text", text)
		req.SetFieldByName("unicode", unicode)
	})
	if err != nil {
		return nil, err
	}
	var reply ParseReply
	reply.decode(resp)
	return &reply, nil
}

func (c *Client) match(ctx context.Context, method, target, schema string) (*MatchReply, error) {
	resp, err := c.invoke(ctx, method, func(req *dynamic.Message) {
		req.SetFieldByName("target", target)
		req.SetFieldByName("schema", schema)
	})
	if err != nil {
		return nil, err
	}
	var reply MatchReply
	reply.decode(resp)
	return &reply, nil
}

func (c *Client) Match(ctx context.Context, target, schema string) (*MatchReply, error) {
	return c.match(ctx, "Match", target, schema)
}

func (c *Client) MatchPattern(ctx context.Context, target, pattern string) (*MatchReply, error) {
	return c.match(ctx, "MatchPattern", target, pattern)
}

func (c *Client) Substitute(ctx context.Context, t string, bindings []Binding) (*TermReply, error) {
	resp, err := c.invoke(ctx, "Substitute", func(req *dynamic.Message) {
		req.SetFieldByName("term", t)
		addBindings(req, "bindings", bindings)
	})
	if err != nil {
		return nil, err
	}
	var reply TermReply
	reply.decode(resp)
	return &reply, nil
}

func (c *Client) Navigate(ctx context.Context, t, p string) (*NavigateReply, error) {
	resp, err := c.invoke(ctx, "Navigate", func(req *dynamic.Message) {
		req.SetFieldByName("term", t)
		req.SetFieldByName("path", p)
	})
	if err != nil {
		return nil, err
	}
	var reply NavigateReply
	reply.decode(resp)
	return &reply, nil
}

func (c *Client) FreeVars(ctx context.Context, t string) (*FreeVarsReply, error) {
	resp, err := c.invoke(ctx, "FreeVars", func(req *dynamic.Message) {
		req.SetFieldByName("term", t)
	})
	if err != nil {
		return nil, err
	}
	var reply FreeVarsReply
	reply.decode(resp)
	return &reply, nil
}
