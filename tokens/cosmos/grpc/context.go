// Package grpc routes cosmos sdk query clients over the tendermint abci
// query endpoint and polls broadcast transactions into blocks.
package grpc

import (
	"context"
	"reflect"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	grpctypes "github.com/cosmos/cosmos-sdk/types/grpc"
	"github.com/pkg/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	protoCodec = encoding.GetCodec(proto.Name)

	_ grpc.ClientConnInterface = ClientContext{}
)

// abci codes of the sdk mapped to grpc status codes, others become codes.Unknown
var abciStatusCodes = map[uint32]codes.Code{
	sdkerrors.ErrInvalidRequest.ABCICode(): codes.InvalidArgument,
	sdkerrors.ErrUnauthorized.ABCICode():   codes.Unauthenticated,
	sdkerrors.ErrKeyNotFound.ABCICode():    codes.NotFound,
}

// ClientContext sdk client context usable as a grpc connection,
// unary calls are sent as abci queries to the tendermint node
type ClientContext struct {
	sdkCtx client.Context
}

// NewClientContext wrap sdk client context
func NewClientContext(sdkCtx client.Context) ClientContext {
	return ClientContext{sdkCtx: sdkCtx}
}

// ChainID cosmos chain id
func (c ClientContext) ChainID() string { return c.sdkCtx.ChainID }

// TxConfig tx encoding and sign mode config
func (c ClientContext) TxConfig() client.TxConfig { return c.sdkCtx.TxConfig }

// Client tendermint rpc client
func (c ClientContext) Client() rpcclient.Client { return c.sdkCtx.Client }

// InterfaceRegistry registry used to unpack Any values
func (c ClientContext) InterfaceRegistry() codectypes.InterfaceRegistry {
	return c.sdkCtx.InterfaceRegistry
}

// WithChainID copy with chain id
func (c ClientContext) WithChainID(chainID string) ClientContext {
	c.sdkCtx = c.sdkCtx.WithChainID(chainID)
	return c
}

// WithClient copy with tendermint rpc client
func (c ClientContext) WithClient(node rpcclient.Client) ClientContext {
	c.sdkCtx = c.sdkCtx.WithClient(node)
	return c
}

// NewStream implements grpc.ClientConnInterface, streams are not served over abci
func (c ClientContext) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streaming rpc not supported")
}

// Invoke implements grpc.ClientConnInterface
func (c ClientContext) Invoke(ctx context.Context, method string, req, reply interface{}, opts ...grpc.CallOption) error {
	if req == nil || reflect.ValueOf(req).IsNil() {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "request cannot be nil")
	}
	data, err := protoCodec.Marshal(req)
	if err != nil {
		return err
	}
	height, err := c.queryHeight(ctx)
	if err != nil {
		return err
	}

	res, err := c.abciQuery(ctx, method, data, height)
	if err != nil {
		return err
	}
	if err = protoCodec.Unmarshal(res.Value, reply); err != nil {
		return err
	}
	setHeightHeader(res.Height, opts)

	if registry := c.sdkCtx.InterfaceRegistry; registry != nil {
		return codectypes.UnpackInterfaces(reply, registry)
	}
	return nil
}

// queryHeight height requested by the outgoing metadata, defaults to the context height
func (c ClientContext) queryHeight(ctx context.Context) (int64, error) {
	md, _ := metadata.FromOutgoingContext(ctx)
	heights := md.Get(grpctypes.GRPCBlockHeightHeader)
	if len(heights) == 0 {
		return c.sdkCtx.Height, nil
	}
	height, err := strconv.ParseInt(heights[0], 10, 64)
	if err != nil {
		return 0, err
	}
	if height < 0 {
		return 0, sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest,
			"query height %d from %q must be >= 0", height, grpctypes.GRPCBlockHeightHeader)
	}
	return height, nil
}

// setHeightHeader reports the answering block height to header call options
func setHeightHeader(height int64, opts []grpc.CallOption) {
	md := metadata.Pairs(grpctypes.GRPCBlockHeightHeader, strconv.FormatInt(height, 10))
	for _, opt := range opts {
		if header, ok := opt.(grpc.HeaderCallOption); ok {
			*header.HeaderAddr = md
		}
	}
}

func (c ClientContext) abciQuery(ctx context.Context, path string, data []byte, height int64) (abci.ResponseQuery, error) {
	node, err := c.sdkCtx.GetNode()
	if err != nil {
		return abci.ResponseQuery{}, err
	}
	result, err := node.ABCIQueryWithOptions(ctx, path, data, rpcclient.ABCIQueryOptions{Height: height})
	if err != nil {
		return abci.ResponseQuery{}, err
	}
	if resp := result.Response; !resp.IsOK() {
		code, exist := abciStatusCodes[resp.Code]
		if !exist {
			code = codes.Unknown
		}
		return abci.ResponseQuery{}, status.Error(code, resp.Log)
	}
	return result.Response, nil
}
