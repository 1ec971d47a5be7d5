package traversal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		canonical string
		terminal  Terminal
	}{
		{
			name:      "count with next",
			fragment:  "V().count().next()",
			canonical: "V().count().next()",
			terminal:  TerminalNext,
		},
		{
			name:      "source prefix and semicolon are stripped",
			fragment:  " g.V().hasLabel('airport').limit(5).toList(); ",
			canonical: "V().hasLabel('airport').limit(5).toList()",
			terminal:  TerminalToList,
		},
		{
			name:      "missing terminal defaults to toList",
			fragment:  `V().has("airport", "code", "AUS").out('route').values('city')`,
			canonical: "V().has('airport', 'code', 'AUS').out('route').values('city').toList()",
			terminal:  TerminalToList,
		},
		{
			name:      "predicates and tokens",
			fragment:  "V().hasLabel('airport').has('runways', P.gte(3)).order().by('elev', Order.desc).limit(10).valueMap('code', 'elev').toList()",
			canonical: "V().hasLabel('airport').has('runways', P.gte(3)).order().by('elev', Order.desc).limit(10).valueMap('code', 'elev').toList()",
			terminal:  TerminalToList,
		},
		{
			name:      "bare predicates and tokens",
			fragment:  "V().has('city', containing('York')).order().by('code', desc).values('code')",
			canonical: "V().has('city', TextP.containing('York')).order().by('code', Order.desc).values('code').toList()",
			terminal:  TerminalToList,
		},
		{
			name:      "anonymous traversals",
			fragment:  "V().has('code','AUS').where(__.out('route').has('code','LHR')).project('code','routes').by('code').by(outE('route').count()).next()",
			canonical: "V().has('code', 'AUS').where(__.out('route').has('code', 'LHR')).project('code', 'routes').by('code').by(__.outE('route').count()).next()",
			terminal:  TerminalNext,
		},
		{
			name:      "numbers with suffixes",
			fragment:  "E().has('dist', P.between(100L, 2.5e3)).limit(3L).hasNext()",
			canonical: "E().has('dist', P.between(100, 2500)).limit(3).hasNext()",
			terminal:  TerminalHasNext,
		},
		{
			name:      "group count by label with scope",
			fragment:  "V().groupCount().by(T.label).order(local).by(values, desc).next()",
			canonical: "V().groupCount().by(T.label).order(Scope.local).by(Column.values, Order.desc).next()",
			terminal:  TerminalNext,
		},
		{
			name:      "repeat and path",
			fragment:  "V().has('code','AUS').repeat(out('route').simplePath()).times(2).has('code','SYD').path().by('code').limit(5).toList()",
			canonical: "V().has('code', 'AUS').repeat(__.out('route').simplePath()).times(2).has('code', 'SYD').path().by('code').limit(5).toList()",
			terminal:  TerminalToList,
		},
		{
			name:      "escaped quote in string",
			fragment:  `V().has('name', 'O\'Hare').id().toList()`,
			canonical: `V().has('name', 'O\'Hare').id().toList()`,
			terminal:  TerminalToList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traversal, err := Parse(tt.fragment)

			require.NoError(t, err)
			assert.Equal(t, tt.canonical, traversal.String())
			assert.Equal(t, tt.terminal, traversal.Terminal)
		})
	}
}

func TestParse_RejectsMutations(t *testing.T) {
	fragments := []string{
		"addV('airport').property('code','XXX').next()",
		"V().drop().iterate()",
		"V().has('code','AUS').property('city','Nowhere').next()",
		"V().sideEffect(drop()).toList()",
		"V().where(__.addE('route').to(V().has('code','LHR'))).toList()",
		"inject(1).toList()",
		"V().mergeV(['code': 'X']).next()",
	}

	for _, fragment := range fragments {
		t.Run(fragment, func(t *testing.T) {
			_, err := Parse(fragment)

			assert.Error(t, err)
		})
	}

	t.Run("Should classify unknown steps as not allowed", func(t *testing.T) {
		_, err := Parse("V().drop()")

		assert.ErrorIs(t, err, ErrStepNotAllowed)
	})

	t.Run("Should reject mutations nested in anonymous traversals", func(t *testing.T) {
		_, err := Parse("V().local(__.properties('x').drop()).toList()")

		assert.ErrorIs(t, err, ErrStepNotAllowed)
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		target   error
	}{
		{"empty", "   ", ErrEmptyFragment},
		{"no start step", "out('route').toList()", ErrSyntax},
		{"terminal in the middle", "V().toList().count()", ErrSyntax},
		{"terminal with argument", "V().next(3)", ErrSyntax},
		{"unterminated string", "V().has('code", ErrSyntax},
		{"unbalanced parens", "V(.count()", ErrSyntax},
		{"trailing garbage", "V().count() + 1", ErrSyntax},
		{"arity", "V().limit()", ErrSyntax},
		{"unknown predicate", "V().has('x', P.regex('a'))", ErrStepNotAllowed},
		{"unknown token", "V().order().by('x', Order.sideways)", ErrSyntax},
		{"predicate with traversal argument", "V().has('x', P.eq(__.out()))", ErrSyntax},
		{"too long", "V()" + strings.Repeat(".out()", 400), ErrTooComplex},
		{"too many steps", "V()" + strings.Repeat(".out()", 70), ErrTooComplex},
		{"too deep", "V().where(out().where(out().where(out().where(out().where(out().where(out().where(out())))))))", ErrTooComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.fragment)

			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestTraversal_StepNames(t *testing.T) {
	traversal := MustParse("V().where(__.out('route')).count().next()")

	assert.Equal(t, []string{"V", "where", "out", "count"}, traversal.StepNames())
}

func TestIsAllowedStep(t *testing.T) {
	assert.True(t, IsAllowedStep("out"))
	assert.False(t, IsAllowedStep("addV"))
	assert.False(t, IsAllowedStep("drop"))
}
