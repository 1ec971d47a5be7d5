package neptune

import (
	"fmt"
	"math"

	"graph-assistant/domain/traversal"

	gremlingo "github.com/apache/tinkerpop/gremlin-go/v3/driver"
)

// compile turns a parsed fragment into a driver traversal bound to g. The
// fragment has already passed the allow-list, so every step is emitted as
// bytecode verbatim.
func compile(g *gremlingo.GraphTraversalSource, t *traversal.Traversal) (*gremlingo.GraphTraversal, error) {
	if len(t.Steps) == 0 {
		return nil, traversal.ErrEmptyFragment
	}

	start := t.Steps[0]
	args, err := convertArgs(start.Args)
	if err != nil {
		return nil, err
	}

	var gt *gremlingo.GraphTraversal
	switch start.Name {
	case "V":
		gt = g.V(args...)
	case "E":
		gt = g.E(args...)
	default:
		return nil, fmt.Errorf("%w: %s cannot start a traversal", traversal.ErrStepNotAllowed, start.Name)
	}

	if err := addSteps(gt, t.Steps[1:]); err != nil {
		return nil, err
	}
	return gt, nil
}

// anonymous builds a child traversal such as __.out('route').
func anonymous(t *traversal.Traversal) (*gremlingo.GraphTraversal, error) {
	gt := gremlingo.NewGraphTraversal(nil, gremlingo.NewBytecode(nil), nil)
	if err := addSteps(gt, t.Steps); err != nil {
		return nil, err
	}
	return gt, nil
}

func addSteps(gt *gremlingo.GraphTraversal, steps []traversal.Step) error {
	for _, step := range steps {
		args, err := convertArgs(step.Args)
		if err != nil {
			return err
		}
		if err := gt.Bytecode.AddStep(step.Name, args...); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
	}
	return nil
}

func convertArgs(values []traversal.Value) ([]interface{}, error) {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		arg, err := convertValue(v)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func convertValue(v traversal.Value) (interface{}, error) {
	switch v.Kind {
	case traversal.KindString:
		return v.Str, nil
	case traversal.KindInt:
		if v.Int >= math.MinInt32 && v.Int <= math.MaxInt32 {
			return int32(v.Int), nil
		}
		return v.Int, nil
	case traversal.KindFloat:
		return v.Float, nil
	case traversal.KindBool:
		return v.Bool, nil
	case traversal.KindNull:
		return nil, nil
	case traversal.KindToken:
		return convertToken(v.Token)
	case traversal.KindPredicate:
		return convertPredicate(v.Predicate)
	case traversal.KindTraversal:
		return anonymous(v.Traversal)
	default:
		return nil, fmt.Errorf("unsupported argument kind %d", v.Kind)
	}
}

func convertToken(tok traversal.Token) (interface{}, error) {
	key := tok.Namespace + "." + tok.Name
	switch key {
	case "T.id":
		return gremlingo.T.Id, nil
	case "T.label":
		return gremlingo.T.Label, nil
	case "T.key":
		return gremlingo.T.Key, nil
	case "T.value":
		return gremlingo.T.Value, nil
	case "Order.asc":
		return gremlingo.Order.Asc, nil
	case "Order.desc":
		return gremlingo.Order.Desc, nil
	case "Order.shuffle":
		return gremlingo.Order.Shuffle, nil
	case "Scope.local":
		return gremlingo.Scope.Local, nil
	case "Scope.global":
		return gremlingo.Scope.Global, nil
	case "Column.keys":
		return gremlingo.Column.Keys, nil
	case "Column.values":
		return gremlingo.Column.Values, nil
	default:
		return nil, fmt.Errorf("%w: token %s", traversal.ErrStepNotAllowed, key)
	}
}

func convertPredicate(p *traversal.Predicate) (interface{}, error) {
	args, err := convertArgs(p.Args)
	if err != nil {
		return nil, err
	}

	if p.Namespace == "TextP" {
		switch p.Name {
		case "containing":
			return gremlingo.TextP.Containing(args...), nil
		case "notContaining":
			return gremlingo.TextP.NotContaining(args...), nil
		case "startingWith":
			return gremlingo.TextP.StartingWith(args...), nil
		case "notStartingWith":
			return gremlingo.TextP.NotStartingWith(args...), nil
		case "endingWith":
			return gremlingo.TextP.EndingWith(args...), nil
		case "notEndingWith":
			return gremlingo.TextP.NotEndingWith(args...), nil
		}
		return nil, fmt.Errorf("%w: predicate TextP.%s", traversal.ErrStepNotAllowed, p.Name)
	}

	switch p.Name {
	case "eq":
		return gremlingo.P.Eq(args...), nil
	case "neq":
		return gremlingo.P.Neq(args...), nil
	case "lt":
		return gremlingo.P.Lt(args...), nil
	case "lte":
		return gremlingo.P.Lte(args...), nil
	case "gt":
		return gremlingo.P.Gt(args...), nil
	case "gte":
		return gremlingo.P.Gte(args...), nil
	case "inside":
		return gremlingo.P.Inside(args...), nil
	case "outside":
		return gremlingo.P.Outside(args...), nil
	case "between":
		return gremlingo.P.Between(args...), nil
	case "within":
		return gremlingo.P.Within(args...), nil
	case "without":
		return gremlingo.P.Without(args...), nil
	}
	return nil, fmt.Errorf("%w: predicate %s.%s", traversal.ErrStepNotAllowed, p.Namespace, p.Name)
}
