// Package grpccodec plugs bridge codecs into gRPC's message encoding.
//
// Registering a typed codec with Register lets native structs travel over
// gRPC calls directly: the wire bytes are standard protobuf produced by the
// schema-driven conversion, so the peer can be an ordinary generated-code
// service. Unregistered types fall back to proto.Marshal when they implement
// proto.Message.
//
// Select the codec per call or per client with
// grpc.CallContentSubtype(grpccodec.Name).
package grpccodec
