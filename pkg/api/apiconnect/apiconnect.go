// Package apiconnect wires the expensecentral.v1 services to Connect
// handlers and clients using the JSON codec from package api.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/pkg/api"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
