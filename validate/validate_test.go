package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/structwire/bridge"
	"github.com/structwire/bridge/internal/testschema"
	"github.com/structwire/bridge/validate"
)

func newMeta(createdBy string) *dynamicpb.Message {
	msg := dynamicpb.NewMessage(testschema.MetaDescriptor())
	msg.Set(testschema.MetaDescriptor().Fields().ByName("created_by"), protoreflect.ValueOfString(createdBy))
	return msg
}

func TestValidatorPassAndFail(t *testing.T) {
	v, err := validate.New(validate.Rule{
		Name: "creator-required",
		Expr: `has(msg.created_by) && msg.created_by != ""`,
		Path: "created_by",
	})
	require.NoError(t, err)

	assert.Empty(t, v.Validate(newMeta("tester")))

	got := v.Validate(dynamicpb.NewMessage(testschema.MetaDescriptor()))
	require.Len(t, got, 1)
	assert.Equal(t, "created_by", got[0].FieldPath)
	assert.Contains(t, got[0].Message, "creator-required")
}

func TestValidatorMultipleRules(t *testing.T) {
	v, err := validate.New(
		validate.Rule{Name: "creator-set", Expr: `has(msg.created_by)`, Path: "created_by"},
		validate.Rule{Name: "creator-short", Expr: `!has(msg.created_by) || size(msg.created_by) < 5`, Path: "created_by"},
	)
	require.NoError(t, err)

	got := v.Validate(newMeta("much-too-long"))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "creator-short")

	got = v.Validate(dynamicpb.NewMessage(testschema.MetaDescriptor()))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "creator-set")
}

func TestValidatorNestedAndRepeated(t *testing.T) {
	v, err := validate.New(validate.Rule{
		Name: "scores-positive",
		Expr: `!has(msg.scores) || msg.scores.all(s, s > 0)`,
		Path: "scores",
	})
	require.NoError(t, err)

	codec, err := bridge.NewCodec[testschema.Person](testschema.PersonDescriptor())
	require.NoError(t, err)

	good := codec.ToMessage(testschema.Person{Scores: []int32{1, 2}}, nil)
	assert.Empty(t, v.Validate(good))

	bad := codec.ToMessage(testschema.Person{Scores: []int32{1, -2}}, nil)
	assert.Len(t, v.Validate(bad), 1)
}

func TestNewRejectsBadRules(t *testing.T) {
	_, err := validate.New(validate.Rule{Name: "syntax", Expr: `msg.(`})
	assert.Error(t, err)

	_, err = validate.New(validate.Rule{Name: "not-bool", Expr: `"a string"`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")
}

func TestEvaluationErrorCountsAsViolation(t *testing.T) {
	v, err := validate.New(validate.Rule{
		Name: "unchecked-access",
		Expr: `msg.created_by != ""`,
		Path: "created_by",
	})
	require.NoError(t, err)

	got := v.Validate(dynamicpb.NewMessage(testschema.MetaDescriptor()))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "failed to evaluate")
}

func TestValidatorWithCodec(t *testing.T) {
	v, err := validate.New(validate.Rule{
		Name: "creator-required",
		Expr: `has(msg.created_by)`,
		Path: "created_by",
	})
	require.NoError(t, err)

	codec, err := bridge.NewCodec[testschema.Meta](testschema.MetaDescriptor(), bridge.WithValidator(v))
	require.NoError(t, err)

	_, err = codec.ToBytes(context.Background(), testschema.Meta{})
	require.Error(t, err)
	assert.ErrorIs(t, err, bridge.ErrConversion)
	assert.Contains(t, err.Error(), "creator-required")

	_, err = codec.ToBytes(context.Background(), testschema.Meta{CreatedBy: bridge.NewOptional("x")})
	assert.NoError(t, err)
}
