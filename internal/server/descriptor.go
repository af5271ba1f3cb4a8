// Package server serves the engine over gRPC. The service is declared in
// an embedded .proto file that is parsed at startup, and requests and
// replies are handled as dynamic messages.
package server

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoregistry"
)

const (
	protoFile   = "funterm/v1/term_service.proto"
	ServiceName = "funterm.v1.TermService"
)

//go:embed term_service.proto
var protoSource string

var loadService = sync.OnceValues(func() (*desc.ServiceDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: protoSource}),
	}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", protoFile, err)
	}
	sd := fds[0].FindService(ServiceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not declared in %s", ServiceName, protoFile)
	}
	return sd, nil
})

// ServiceDescriptor returns the parsed TermService descriptor.
func ServiceDescriptor() (*desc.ServiceDescriptor, error) {
	return loadService()
}

func fullMethod(sd *desc.ServiceDescriptor, method string) string {
	return "/" + sd.GetFullyQualifiedName() + "/" + method
}

var registerFile = sync.OnceValue(func() error {
	sd, err := loadService()
	if err != nil {
		return err
	}
	if err := protoregistry.GlobalFiles.RegisterFile(sd.GetFile().UnwrapFile()); err != nil {
		return fmt.Errorf("register %s: %w", protoFile, err)
	}
	return nil
})
