package validate

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"google.golang.org/protobuf/proto"

	"github.com/structwire/bridge"
)

// Rule is one CEL constraint over a message.
type Rule struct {
	// Name identifies the rule in violation messages.
	Name string

	// Expr is a CEL expression over the variable "msg" that must evaluate
	// to a bool. A field absent from the message is absent from "msg", so
	// presence checks are spelled "has(msg.field)" or `"field" in msg`.
	Expr string

	// Path is the field path reported when the rule fails. Optional; an
	// empty path attributes the violation to the whole message.
	Path string
}

type compiledRule struct {
	rule    Rule
	program cel.Program
}

// Validator holds compiled rules. It implements bridge.Validator and is safe
// for concurrent use.
type Validator struct {
	rules []compiledRule
}

// New compiles the given rules. Compilation failures and non-bool
// expressions are reported here, once, so Validate cannot hit them.
func New(rules ...Rule) (*Validator, error) {
	env, err := cel.NewEnv(cel.Variable("msg", cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	v := &Validator{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		ast, iss := env.Compile(r.Expr)
		if iss.Err() != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %q: expression yields %s, want bool", r.Name, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("build rule %q: %w", r.Name, err)
		}
		v.rules = append(v.rules, compiledRule{rule: r, program: prg})
	}
	return v, nil
}

// Validate evaluates every rule against m and returns one entry per failed
// rule. Evaluation errors (for example indexing an absent field) count as
// failures, attributed to the rule's path.
func (v *Validator) Validate(m proto.Message) []bridge.ConversionError {
	props := messageProperties(m.ProtoReflect())

	var violations []bridge.ConversionError
	for _, cr := range v.rules {
		out, _, err := cr.program.Eval(map[string]any{"msg": props})
		if err != nil {
			violations = append(violations, bridge.ConversionError{
				FieldPath: cr.rule.Path,
				Message:   fmt.Sprintf("rule %q failed to evaluate: %v", cr.rule.Name, err),
			})
			continue
		}
		if passed, ok := out.Value().(bool); !ok || !passed {
			violations = append(violations, bridge.ConversionError{
				FieldPath: cr.rule.Path,
				Message:   fmt.Sprintf("rule %q violated", cr.rule.Name),
			})
		}
	}
	return violations
}
