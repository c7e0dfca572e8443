package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwire/bridge/internal/testschema"
	"github.com/structwire/bridge/schema"
)

func TestSetAddDescriptorSet(t *testing.T) {
	s := schema.NewSet()
	require.NoError(t, s.AddDescriptorSet(testschema.DescriptorSetBytes()))

	md, err := s.Message("example.bridge.Person")
	require.NoError(t, err)
	assert.Equal(t, "example/person.proto", md.ParentFile().Path())

	// Re-adding the same set is a no-op, not a conflict.
	require.NoError(t, s.AddDescriptorSet(testschema.DescriptorSetBytes()))
}

func TestSetUnknownMessage(t *testing.T) {
	s := schema.NewSet()
	require.NoError(t, s.AddDescriptorSet(testschema.DescriptorSetBytes()))

	_, err := s.Message("example.bridge.Nope")
	assert.Error(t, err)

	// A resolvable name that is not a message is rejected too.
	_, err = s.Message("example.bridge.Color")
	assert.Error(t, err)
}

func TestSetRejectsMalformedBytes(t *testing.T) {
	s := schema.NewSet()
	assert.Error(t, s.AddDescriptorSet([]byte{0xff, 0xff}))
}

func TestFromFileDescriptorSet(t *testing.T) {
	s, err := schema.FromFileDescriptorSet(testschema.DescriptorSetBytes())
	require.NoError(t, err)

	_, err = s.Message("example.bridge.Meta")
	assert.NoError(t, err)

	_, err = schema.FromFileDescriptorSet([]byte{0xff})
	assert.Error(t, err)
}

func TestSetMessages(t *testing.T) {
	s := schema.NewSet()
	require.NoError(t, s.AddDescriptorSet(testschema.DescriptorSetBytes()))

	names := s.Messages()
	assert.Contains(t, names, "example.bridge.Person")
	assert.Contains(t, names, "example.bridge.Meta")
	assert.Contains(t, names, "example.bridge.TagSet")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     schema.Config
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     schema.Config{Descriptors: []string{"a.binpb"}, Messages: []string{"pkg.Msg"}},
			wantErr: false,
		},
		{
			name:    "no descriptors",
			cfg:     schema.Config{},
			wantErr: true,
		},
		{
			name:    "empty descriptor path",
			cfg:     schema.Config{Descriptors: []string{""}},
			wantErr: true,
		},
		{
			name:    "empty message name",
			cfg:     schema.Config{Descriptors: []string{"a.binpb"}, Messages: []string{""}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigAndLoad(t *testing.T) {
	dir := t.TempDir()
	descPath := filepath.Join(dir, "example.binpb")
	require.NoError(t, os.WriteFile(descPath, testschema.DescriptorSetBytes(), 0o644))

	cfgYAML := "descriptors:\n  - " + descPath + "\nmessages:\n  - example.bridge.Person\n  - example.bridge.TagSet\n"
	cfgPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	cfg, err := schema.LoadConfig(cfgPath)
	require.NoError(t, err)

	s, err := cfg.Load()
	require.NoError(t, err)

	md, err := s.Message("example.bridge.TagSet")
	require.NoError(t, err)
	assert.Equal(t, "TagSet", string(md.Name()))
}

func TestLoadFailsOnUnresolvableMessage(t *testing.T) {
	dir := t.TempDir()
	descPath := filepath.Join(dir, "example.binpb")
	require.NoError(t, os.WriteFile(descPath, testschema.DescriptorSetBytes(), 0o644))

	cfg := schema.Config{
		Descriptors: []string{descPath},
		Messages:    []string{"example.bridge.Missing"},
	}
	_, err := cfg.Load()
	assert.Error(t, err)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	cfg := schema.Config{Descriptors: []string{filepath.Join(t.TempDir(), "nope.binpb")}}
	_, err := cfg.Load()
	assert.Error(t, err)
}
