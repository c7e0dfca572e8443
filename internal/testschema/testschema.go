// Package testschema provides the example schema used by tests across the
// module: an in-code descriptor build of a small two-message person schema
// (optional scalars, repeated fields, an entry-list label field, nested
// messages, enums, and a oneof contact group) plus a proto3 map schema, and
// the native struct types bound to them.
package testschema

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/structwire/bridge"
)

// Color mirrors the example.bridge.Color enum.
type Color int32

const (
	ColorUnspecified Color = iota
	ColorRed
	ColorGreen
	ColorBlue
)

// Meta is the native form of example.bridge.Meta.
type Meta struct {
	CreatedBy bridge.Optional[string] `bridge:"created_by"`
}

// Attributes is the native form of example.bridge.Person.Attributes. Email
// and Phone are members of the contact oneof: independent optional slots on
// the native side, a tagged union on the wire.
type Attributes struct {
	Nickname bridge.Optional[string]
	Email    bridge.Optional[string]
	Phone    bridge.Optional[string]
}

// LabelsEntry is one explicit key/value entry of the labels field.
type LabelsEntry struct {
	Key   bridge.Optional[string]
	Value bridge.Optional[Attributes]
}

// Person is the native form of example.bridge.Person.
type Person struct {
	ID           bridge.Optional[int64] `bridge:"id"`
	Scores       []int32
	Labels       []LabelsEntry
	PrimaryColor bridge.Optional[Color] `bridge:"primary_color"`
	Attributes   bridge.Optional[Attributes]
	Email        bridge.Optional[string]
	Phone        bridge.Optional[string]
	Meta         bridge.Optional[Meta]
}

// TagsEntry is one entry of the proto3 map<string, string> tags field.
type TagsEntry struct {
	Key   string
	Value string
}

// NotesEntry is one entry of the proto3 map<int64, string> notes field.
type NotesEntry struct {
	Key   int64
	Value string
}

// TagSet is the native form of example.bridge.TagSet.
type TagSet struct {
	Tags  []TagsEntry
	Notes []NotesEntry
}

var (
	files      *protoregistry.Files
	fdset      *descriptorpb.FileDescriptorSet
	personDesc protoreflect.MessageDescriptor
	metaDesc   protoreflect.MessageDescriptor
	tagSetDesc protoreflect.MessageDescriptor
)

func init() {
	fdset = &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{personFile(), tagsFile()},
	}
	var err error
	files, err = protodesc.NewFiles(fdset)
	if err != nil {
		panic(fmt.Sprintf("testschema: building files: %v", err))
	}
	personDesc = message("example.bridge.Person")
	metaDesc = message("example.bridge.Meta")
	tagSetDesc = message("example.bridge.TagSet")
}

func message(name protoreflect.FullName) protoreflect.MessageDescriptor {
	d, err := files.FindDescriptorByName(name)
	if err != nil {
		panic(fmt.Sprintf("testschema: %v", err))
	}
	return d.(protoreflect.MessageDescriptor)
}

// PersonDescriptor returns the example.bridge.Person message descriptor.
func PersonDescriptor() protoreflect.MessageDescriptor { return personDesc }

// MetaDescriptor returns the example.bridge.Meta message descriptor.
func MetaDescriptor() protoreflect.MessageDescriptor { return metaDesc }

// TagSetDescriptor returns the example.bridge.TagSet message descriptor.
func TagSetDescriptor() protoreflect.MessageDescriptor { return tagSetDesc }

// Files returns a registry holding the example schema files.
func Files() *protoregistry.Files { return files }

// DescriptorSetBytes returns the example schema serialized as a
// FileDescriptorSet, as a descriptor-set file produced by protoc would be.
func DescriptorSetBytes() []byte {
	data, err := proto.Marshal(fdset)
	if err != nil {
		panic(fmt.Sprintf("testschema: marshaling descriptor set: %v", err))
	}
	return data
}

func personFile() *descriptorpb.FileDescriptorProto {
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	repeated := descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	tstring := descriptorpb.FieldDescriptorProto_TYPE_STRING
	tint32 := descriptorpb.FieldDescriptorProto_TYPE_INT32
	tint64 := descriptorpb.FieldDescriptorProto_TYPE_INT64
	tmessage := descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	tenum := descriptorpb.FieldDescriptorProto_TYPE_ENUM

	attributes := &descriptorpb.DescriptorProto{
		Name: proto.String("Attributes"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("nickname"), Number: proto.Int32(1), Label: &optional, Type: &tstring},
			{Name: proto.String("email"), Number: proto.Int32(2), Label: &optional, Type: &tstring, OneofIndex: proto.Int32(0)},
			{Name: proto.String("phone"), Number: proto.Int32(3), Label: &optional, Type: &tstring, OneofIndex: proto.Int32(0)},
		},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("contact")}},
	}

	labelsEntry := &descriptorpb.DescriptorProto{
		Name: proto.String("LabelsEntry"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("key"), Number: proto.Int32(1), Label: &optional, Type: &tstring},
			{Name: proto.String("value"), Number: proto.Int32(2), Label: &optional, Type: &tmessage,
				TypeName: proto.String(".example.bridge.Person.Attributes")},
		},
	}

	person := &descriptorpb.DescriptorProto{
		Name: proto.String("Person"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("id"), Number: proto.Int32(1), Label: &optional, Type: &tint64},
			{Name: proto.String("scores"), Number: proto.Int32(2), Label: &repeated, Type: &tint32},
			{Name: proto.String("labels"), Number: proto.Int32(3), Label: &repeated, Type: &tmessage,
				TypeName: proto.String(".example.bridge.Person.LabelsEntry")},
			{Name: proto.String("primary_color"), Number: proto.Int32(4), Label: &optional, Type: &tenum,
				TypeName: proto.String(".example.bridge.Color")},
			{Name: proto.String("attributes"), Number: proto.Int32(5), Label: &optional, Type: &tmessage,
				TypeName: proto.String(".example.bridge.Person.Attributes")},
			{Name: proto.String("email"), Number: proto.Int32(6), Label: &optional, Type: &tstring, OneofIndex: proto.Int32(0)},
			{Name: proto.String("phone"), Number: proto.Int32(7), Label: &optional, Type: &tstring, OneofIndex: proto.Int32(0)},
			{Name: proto.String("meta"), Number: proto.Int32(8), Label: &optional, Type: &tmessage,
				TypeName: proto.String(".example.bridge.Meta")},
		},
		NestedType: []*descriptorpb.DescriptorProto{attributes, labelsEntry},
		OneofDecl:  []*descriptorpb.OneofDescriptorProto{{Name: proto.String("contact")}},
	}

	meta := &descriptorpb.DescriptorProto{
		Name: proto.String("Meta"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("created_by"), Number: proto.Int32(1), Label: &optional, Type: &tstring},
		},
	}

	color := &descriptorpb.EnumDescriptorProto{
		Name: proto.String("Color"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("COLOR_UNSPECIFIED"), Number: proto.Int32(0)},
			{Name: proto.String("COLOR_RED"), Number: proto.Int32(1)},
			{Name: proto.String("COLOR_GREEN"), Number: proto.Int32(2)},
			{Name: proto.String("COLOR_BLUE"), Number: proto.Int32(3)},
		},
	}

	return &descriptorpb.FileDescriptorProto{
		Name:        proto.String("example/person.proto"),
		Package:     proto.String("example.bridge"),
		Syntax:      proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{meta, person},
		EnumType:    []*descriptorpb.EnumDescriptorProto{color},
	}
}

func tagsFile() *descriptorpb.FileDescriptorProto {
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	repeated := descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	tstring := descriptorpb.FieldDescriptorProto_TYPE_STRING
	tint64 := descriptorpb.FieldDescriptorProto_TYPE_INT64
	tmessage := descriptorpb.FieldDescriptorProto_TYPE_MESSAGE

	mapEntry := func(name string, keyType *descriptorpb.FieldDescriptorProto_Type) *descriptorpb.DescriptorProto {
		return &descriptorpb.DescriptorProto{
			Name: proto.String(name),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: proto.String("key"), Number: proto.Int32(1), Label: &optional, Type: keyType},
				{Name: proto.String("value"), Number: proto.Int32(2), Label: &optional, Type: &tstring},
			},
			Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
		}
	}

	tagSet := &descriptorpb.DescriptorProto{
		Name: proto.String("TagSet"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("tags"), Number: proto.Int32(1), Label: &repeated, Type: &tmessage,
				TypeName: proto.String(".example.bridge.TagSet.TagsEntry")},
			{Name: proto.String("notes"), Number: proto.Int32(2), Label: &repeated, Type: &tmessage,
				TypeName: proto.String(".example.bridge.TagSet.NotesEntry")},
		},
		NestedType: []*descriptorpb.DescriptorProto{
			mapEntry("TagsEntry", &tstring),
			mapEntry("NotesEntry", &tint64),
		},
	}

	return &descriptorpb.FileDescriptorProto{
		Name:        proto.String("example/tags.proto"),
		Package:     proto.String("example.bridge"),
		Syntax:      proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{tagSet},
	}
}
