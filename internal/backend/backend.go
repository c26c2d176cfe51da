// Package backend models the narrow interface to the external code
// generation backend (§6 Outputs): the HIR compiler's only outward-
// facing product is a finalized module, handed off over a small gRPC
// service rather than through any in-process API the backend might
// couple to.
//
// Grounded on funvibe-funxy/internal/evaluator/builtins_grpc.go's
// hand-built grpc.ServiceDesc (no protoc-generated stubs), using
// jhump/protoreflect's dynamic messages to build the wire payload from
// a descriptor assembled at runtime via protodesc.
package backend

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/corelang/hirc/internal/hir"
)

// moduleSummarySchema is compiled once via protoparse's in-memory
// accessor, avoiding a dependency on a .proto file on disk or a protoc
// invocation: the schema is simple enough (four scalar-ish fields) to
// author directly as source text and compile at process start.
const moduleSummarySchema = `
syntax = "proto3";
package hirc.backend;

message ModuleSummary {
  string name = 1;
  int64 statement_count = 2;
  repeated string functions = 3;
  repeated string monomorphized_instances = 4;
}

message EmitRequest {
  ModuleSummary summary = 1;
}

message EmitResponse {
  bool accepted = 1;
  string detail = 2;
}
`

// Emitter is the client-side handle a compiler session uses to hand its
// finalized module off to an external backend reachable at addr.
type Emitter struct {
	conn *grpc.ClientConn
}

// Dial connects to a backend implementing the HIREmitter/Emit RPC.
func Dial(addr string) (*Emitter, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("backend: dialing %s: %w", addr, err)
	}
	return &Emitter{conn: conn}, nil
}

func (e *Emitter) Close() error { return e.conn.Close() }

// Emit marshals a summary of module into a dynamic protobuf message and
// invokes the backend's Emit RPC, never touching a protoc-generated
// stub.
func (e *Emitter) Emit(ctx context.Context, module *hir.Module) (accepted bool, detail string, err error) {
	files, err := compileSummarySchema()
	if err != nil {
		return false, "", err
	}
	md := files.FindMessage("hirc.backend.ModuleSummary")
	if md == nil {
		return false, "", fmt.Errorf("backend: ModuleSummary descriptor not found")
	}
	reqMd := files.FindMessage("hirc.backend.EmitRequest")
	if reqMd == nil {
		return false, "", fmt.Errorf("backend: EmitRequest descriptor not found")
	}

	summary := dynamic.NewMessage(md)
	summary.SetFieldByName("name", module.Name)
	summary.SetFieldByName("statement_count", int64(len(module.Statements)))

	var fnNames []interface{}
	for _, s := range module.Statements {
		if fd, ok := s.(*hir.FunctionDeclStmt); ok {
			fnNames = append(fnNames, fd.Function.CanonicalName())
		}
	}
	summary.SetFieldByName("functions", fnNames)

	var instances []interface{}
	for _, f := range module.Monomorphized {
		instances = append(instances, f.CanonicalName())
	}
	summary.SetFieldByName("monomorphized_instances", instances)

	req := dynamic.NewMessage(reqMd)
	req.SetFieldByName("summary", summary)

	respMd := files.FindMessage("hirc.backend.EmitResponse")
	resp := dynamic.NewMessage(respMd)

	// dynamic.Message implements proto.Message directly, so it can be
	// passed straight to Invoke without a protoc-generated stub on
	// either side of the wire.
	if err := e.conn.Invoke(ctx, "/hirc.backend.HIREmitter/Emit", req, resp); err != nil {
		return false, "", fmt.Errorf("backend: invoking Emit: %w", err)
	}

	return resp.GetFieldByName("accepted").(bool), fmt.Sprint(resp.GetFieldByName("detail")), nil
}

// compileSummarySchema compiles moduleSummarySchema in memory via
// protoparse's FileContentsFromMap accessor, the same entry point the
// teacher's grpcLoadProto uses for an on-disk .proto, substituting an
// in-memory map since this schema has no file of its own.
func compileSummarySchema() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"module_summary.proto": moduleSummarySchema,
		}),
	}
	fds, err := parser.ParseFiles("module_summary.proto")
	if err != nil {
		return nil, fmt.Errorf("backend: compiling module summary schema: %w", err)
	}
	return fds[0], nil
}
