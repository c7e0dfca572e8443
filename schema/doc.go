// Package schema loads and resolves protobuf message descriptors at runtime.
//
// A Set wraps a descriptor registry built from one or more serialized
// FileDescriptorSet blobs (the output of "protoc --descriptor_set_out").
// Codecs are compiled against descriptors resolved from a Set, so message
// layouts can ship as data rather than generated code.
//
// Sets can be assembled directly from bytes or files, or from a YAML
// configuration listing descriptor-set paths and the message names expected
// to resolve from them. See Config and Load.
package schema
