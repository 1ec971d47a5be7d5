// Package traversal parses graph traversal fragments such as
// V().hasLabel('airport').out('route').values('code').toList() into a small
// AST and rejects any step that is not on the read-only allow-list.
//
// Nothing in this package talks to a database. The AST is compiled into a
// driver traversal by the infrastructure layer.
package traversal

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmptyFragment  = errors.New("traversal fragment is empty")
	ErrSyntax         = errors.New("traversal syntax error")
	ErrStepNotAllowed = errors.New("traversal step not allowed")
	ErrTooComplex     = errors.New("traversal too complex")
)

// Terminal is the step that turns a traversal into results.
type Terminal string

const (
	TerminalToList  Terminal = "toList"
	TerminalNext    Terminal = "next"
	TerminalHasNext Terminal = "hasNext"
)

// Traversal is a parsed fragment. Anonymous traversals used as step
// arguments have no terminal.
type Traversal struct {
	Steps    []Step
	Terminal Terminal
}

// Step is a single call in the chain.
type Step struct {
	Name string
	Args []Value
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
	KindPredicate
	KindToken
	KindTraversal
)

// Value is a step argument.
type Value struct {
	Kind      ValueKind
	Str       string
	Int       int64
	Float     float64
	Bool      bool
	Predicate *Predicate
	Token     Token
	Traversal *Traversal
}

// Predicate is a comparison such as P.gt(5) or TextP.containing('x').
type Predicate struct {
	Namespace string
	Name      string
	Args      []Value
}

// Token is an enum constant such as T.id, Order.desc or Scope.local.
type Token struct {
	Namespace string
	Name      string
}

// String renders the traversal in canonical form, without a source prefix.
func (t *Traversal) String() string {
	var sb strings.Builder
	t.write(&sb)
	if t.Terminal != "" {
		sb.WriteString(".")
		sb.WriteString(string(t.Terminal))
		sb.WriteString("()")
	}
	return sb.String()
}

func (t *Traversal) write(sb *strings.Builder) {
	for i, step := range t.Steps {
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(step.Name)
		writeArgs(sb, step.Args)
	}
}

// StepNames lists the step names in order, including nested traversals.
func (t *Traversal) StepNames() []string {
	var names []string
	for _, step := range t.Steps {
		names = append(names, step.Name)
		for _, arg := range step.Args {
			if arg.Kind == KindTraversal {
				names = append(names, arg.Traversal.StepNames()...)
			}
		}
	}
	return names
}

func writeArgs(sb *strings.Builder, args []Value) {
	sb.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		arg.write(sb)
	}
	sb.WriteString(")")
}

func (v Value) write(sb *strings.Builder) {
	switch v.Kind {
	case KindString:
		sb.WriteString("'")
		sb.WriteString(strings.ReplaceAll(v.Str, "'", `\'`))
		sb.WriteString("'")
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindNull:
		sb.WriteString("null")
	case KindPredicate:
		sb.WriteString(v.Predicate.Namespace)
		sb.WriteString(".")
		sb.WriteString(v.Predicate.Name)
		writeArgs(sb, v.Predicate.Args)
	case KindToken:
		sb.WriteString(v.Token.Namespace)
		sb.WriteString(".")
		sb.WriteString(v.Token.Name)
	case KindTraversal:
		sb.WriteString("__.")
		v.Traversal.write(sb)
	}
}
