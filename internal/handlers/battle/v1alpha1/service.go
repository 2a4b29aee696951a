package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rpgcampaign.battle.v1alpha1.BattleService"

// Full method names
const (
	MethodCreateBattle    = "/" + ServiceName + "/CreateBattle"
	MethodAddParticipant  = "/" + ServiceName + "/AddParticipant"
	MethodGrantEffect     = "/" + ServiceName + "/GrantEffect"
	MethodResolveRound    = "/" + ServiceName + "/ResolveRound"
	MethodGetRoundHistory = "/" + ServiceName + "/GetRoundHistory"
	MethodGetBattle       = "/" + ServiceName + "/GetBattle"
	MethodEndBattle       = "/" + ServiceName + "/EndBattle"
	MethodListBattles     = "/" + ServiceName + "/ListBattles"
)

// BattleServiceServer is the server API for the battle service. Requests and
// responses are google.protobuf.Struct documents; the field names are the
// snake_case JSON names of the request types in this package.
type BattleServiceServer interface {
	CreateBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddParticipant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GrantEffect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveRound(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRoundHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBattles(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterBattleServiceServer registers srv on s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

type unaryMethod func(BattleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BattleServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BattleServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BattleServiceDesc is the grpc.ServiceDesc for the battle service.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBattle", Handler: methodHandler(MethodCreateBattle, BattleServiceServer.CreateBattle)},
		{MethodName: "AddParticipant", Handler: methodHandler(MethodAddParticipant, BattleServiceServer.AddParticipant)},
		{MethodName: "GrantEffect", Handler: methodHandler(MethodGrantEffect, BattleServiceServer.GrantEffect)},
		{MethodName: "ResolveRound", Handler: methodHandler(MethodResolveRound, BattleServiceServer.ResolveRound)},
		{MethodName: "GetRoundHistory", Handler: methodHandler(MethodGetRoundHistory, BattleServiceServer.GetRoundHistory)},
		{MethodName: "GetBattle", Handler: methodHandler(MethodGetBattle, BattleServiceServer.GetBattle)},
		{MethodName: "EndBattle", Handler: methodHandler(MethodEndBattle, BattleServiceServer.EndBattle)},
		{MethodName: "ListBattles", Handler: methodHandler(MethodListBattles, BattleServiceServer.ListBattles)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpgcampaign/battle/v1alpha1/battle.proto",
}

// BattleServiceClient is the client API for the battle service.
type BattleServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBattleServiceClient wraps a connection.
func NewBattleServiceClient(cc grpc.ClientConnInterface) *BattleServiceClient {
	return &BattleServiceClient{cc: cc}
}

// Call invokes a unary method by its full name.
func (c *BattleServiceClient) Call(
	ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
