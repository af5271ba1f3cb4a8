package server

import (
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
)

// Reply and request shapes shared by the server and the client. Each
// mirrors one message of term_service.proto.

type ParseReply struct {
	Canonical string
	Display   string
	Size      int
	FreeVars  []string
}

type Binding struct {
	Name  string
	Value string
}

type Expansion struct {
	Name  string
	Count int
}

type MatchReply struct {
	Matched    bool
	Bindings   []Binding
	Expansions []Expansion
}

type TermReply struct {
	Canonical string
	Display   string
}

type NavigateReply struct {
	Canonical  string
	Display    string
	Path       string
	PrettyPath string
}

type FreeVarsReply struct {
	Names        []string
	MathVars     []string
	NewConstants []string
}

func getString(m *dynamic.Message, field string) string {
	v, err := m.TryGetFieldByName(field)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func getBool(m *dynamic.Message, field string) bool {
	v, err := m.TryGetFieldByName(field)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func getInt(m *dynamic.Message, field string) int {
	v, err := m.TryGetFieldByName(field)
	if err != nil {
		return 0
	}
	n, _ := v.(int32)
	return int(n)
}

func getStrings(m *dynamic.Message, field string) []string {
	var out []string
	for _, item := range getRepeated(m, field) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getMessages(m *dynamic.Message, field string) []*dynamic.Message {
	var out []*dynamic.Message
	for _, item := range getRepeated(m, field) {
		if msg, ok := item.(*dynamic.Message); ok {
			out = append(out, msg)
		}
	}
	return out
}

func getRepeated(m *dynamic.Message, field string) []any {
	v, err := m.TryGetFieldByName(field)
	if err != nil {
		return nil
	}
	items, _ := v.([]any)
	return items
}

func addStrings(m *dynamic.Message, field string, values []string) {
	for _, v := range values {
		m.AddRepeatedFieldByName(field, v)
	}
}

// newNested returns an empty message of the type of field.
func newNested(m *dynamic.Message, field string) *dynamic.Message {
	return dynamic.NewMessage(m.GetMessageDescriptor().FindFieldByName(field).GetMessageType())
}

func addBindings(m *dynamic.Message, field string, bindings []Binding) {
	for _, b := range bindings {
		msg := newNested(m, field)
		msg.SetFieldByName("name", b.Name)
		msg.SetFieldByName("value", b.Value)
		m.AddRepeatedFieldByName(field, msg)
	}
}

func readBindings(m *dynamic.Message, field string) []Binding {
	var out []Binding
	for _, msg := range getMessages(m, field) {
		out = append(out, Binding{Name: getString(msg, "name"), Value: getString(msg, "value")})
	}
	return out
}

func (r *ParseReply) encode(md *desc.MessageDescriptor) *dynamic.Message {
	m := dynamic.NewMessage(md)
	m.SetFieldByName("canonical", r.Canonical)
	m.SetFieldByName("display", r.Display)
	m.SetFieldByName("size", int32(r.Size))
	addStrings(m, "free_vars", r.FreeVars)
	return m
}

func (r *ParseReply) decode(m *dynamic.Message) {
	r.Canonical = getString(m, "canonical")
	r.Display = getString(m, "display")
	r.Size = getInt(m, "size")
	r.FreeVars = getStrings(m, "free_vars")
}

func (r *MatchReply) encode(md *desc.MessageDescriptor) *dynamic.Message {
	m := dynamic.NewMessage(md)
	m.SetFieldByName("matched", r.Matched)
	addBindings(m, "bindings", r.Bindings)
	for _, x := range r.Expansions {
		msg := newNested(m, "expansions")
		msg.SetFieldByName("name", x.Name)
		msg.SetFieldByName("count", int32(x.Count))
		m.AddRepeatedFieldByName("expansions", msg)
	}
	return m
}

func (r *MatchReply) decode(m *dynamic.Message) {
	r.Matched = getBool(m, "matched")
	r.Bindings = readBindings(m, "bindings")
	r.Expansions = nil
	for _, msg := range getMessages(m, "expansions") {
		r.Expansions = append(r.Expansions, Expansion{Name: getString(msg, "name"), Count: getInt(msg, "count")})
	}
}

func (r *TermReply) encode(md *desc.MessageDescriptor) *dynamic.Message {
	m := dynamic.NewMessage(md)
	m.SetFieldByName("canonical", r.Canonical)
	m.SetFieldByName("display", r.Display)
	return m
}

func (r *TermReply) decode(m *dynamic.Message) {
	r.Canonical = getString(m, "canonical")
	r.Display = getString(m, "display")
}

func (r *NavigateReply) encode(md *desc.MessageDescriptor) *dynamic.Message {
	m := dynamic.NewMessage(md)
	m.SetFieldByName("canonical", r.Canonical)
	m.SetFieldByName("display", r.Display)
	m.SetFieldByName("path", r.Path)
	m.SetFieldByName("pretty_path", r.PrettyPath)
	return m
}

func (r *NavigateReply) decode(m *dynamic.Message) {
	r.Canonical = getString(m, "canonical")
	r.Display = getString(m, "display")
	r.Path = getString(m, "path")
	r.PrettyPath = getString(m, "pretty_path")
}

func (r *FreeVarsReply) encode(md *desc.MessageDescriptor) *dynamic.Message {
	m := dynamic.NewMessage(md)
	addStrings(m, "names", r.Names)
	addStrings(m, "math_vars", r.MathVars)
	addStrings(m, "new_constants", r.NewConstants)
	return m
}

func (r *FreeVarsReply) decode(m *dynamic.Message) {
	r.Names = getStrings(m, "names")
	r.MathVars = getStrings(m, "math_vars")
	r.NewConstants = getStrings(m, "new_constants")
}
