package schema

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Set is a resolvable collection of message descriptors.
type Set struct {
	files *protoregistry.Files
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{files: new(protoregistry.Files)}
}

// FromFileDescriptorSet builds a Set from one serialized FileDescriptorSet.
func FromFileDescriptorSet(data []byte) (*Set, error) {
	s := NewSet()
	if err := s.AddDescriptorSet(data); err != nil {
		return nil, err
	}
	return s, nil
}

// AddDescriptorSet parses a serialized FileDescriptorSet and registers every
// file it contains. Files must arrive with their dependencies, either in the
// same set or registered by an earlier call.
func (s *Set) AddDescriptorSet(data []byte) error {
	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fds); err != nil {
		return fmt.Errorf("parse descriptor set: %w", err)
	}
	for _, fdp := range fds.GetFile() {
		if _, err := s.files.FindFileByPath(fdp.GetName()); err == nil {
			continue // already registered, first registration wins
		}
		fd, err := protodesc.NewFile(fdp, s.files)
		if err != nil {
			return fmt.Errorf("resolve file %q: %w", fdp.GetName(), err)
		}
		if err := s.files.RegisterFile(fd); err != nil {
			return fmt.Errorf("register file %q: %w", fdp.GetName(), err)
		}
	}
	return nil
}

// AddDescriptorFile reads a descriptor-set file from disk and registers it.
func (s *Set) AddDescriptorFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read descriptor file: %w", err)
	}
	if err := s.AddDescriptorSet(data); err != nil {
		return fmt.Errorf("descriptor file %q: %w", path, err)
	}
	return nil
}

// Message resolves a fully qualified message name to its descriptor.
func (s *Set) Message(name string) (protoreflect.MessageDescriptor, error) {
	d, err := s.files.FindDescriptorByName(protoreflect.FullName(name))
	if err != nil {
		return nil, fmt.Errorf("message %q: %w", name, err)
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("message %q: descriptor is a %T, not a message", name, d)
	}
	return md, nil
}

// Messages returns the fully qualified names of all top-level messages in
// the set, in file registration order.
func (s *Set) Messages() []string {
	var names []string
	s.files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		msgs := fd.Messages()
		for i := 0; i < msgs.Len(); i++ {
			names = append(names, string(msgs.Get(i).FullName()))
		}
		return true
	})
	return names
}

// Files exposes the underlying registry for callers that need to resolve
// enums or extensions themselves.
func (s *Set) Files() *protoregistry.Files {
	return s.files
}
