package traversal

// unbounded marks steps that take any number of arguments.
const unbounded = -1

// stepRule bounds the arguments of an allowed step.
type stepRule struct {
	minArgs int
	maxArgs int
	start   bool
}

// allowedSteps is the read-only step vocabulary. Steps that write or that
// run arbitrary code (addV, addE, drop, property, mergeV, mergeE, inject,
// sideEffect, map/flatMap with lambdas, call, io, ...) are absent.
var allowedSteps = map[string]stepRule{
	// start steps
	"V": {maxArgs: unbounded, start: true},
	"E": {maxArgs: unbounded, start: true},

	// filters
	"has":        {minArgs: 1, maxArgs: 3},
	"hasLabel":   {minArgs: 1, maxArgs: unbounded},
	"hasId":      {minArgs: 1, maxArgs: unbounded},
	"hasNot":     {minArgs: 1, maxArgs: 1},
	"hasKey":     {minArgs: 1, maxArgs: unbounded},
	"is":         {minArgs: 1, maxArgs: 1},
	"where":      {minArgs: 1, maxArgs: 2},
	"not":        {minArgs: 1, maxArgs: 1},
	"and":        {maxArgs: unbounded},
	"or":         {maxArgs: unbounded},
	"dedup":      {maxArgs: unbounded},
	"simplePath": {},
	"cyclicPath": {},
	"limit":      {minArgs: 1, maxArgs: 2},
	"range":      {minArgs: 2, maxArgs: 3},
	"tail":       {maxArgs: 2},
	"skip":       {minArgs: 1, maxArgs: 2},
	"sample":     {minArgs: 1, maxArgs: 2},

	// navigation
	"out":    {maxArgs: unbounded},
	"in":     {maxArgs: unbounded},
	"both":   {maxArgs: unbounded},
	"outE":   {maxArgs: unbounded},
	"inE":    {maxArgs: unbounded},
	"bothE":  {maxArgs: unbounded},
	"outV":   {},
	"inV":    {},
	"otherV": {},
	"bothV":  {},

	// projection
	"values":     {maxArgs: unbounded},
	"valueMap":   {maxArgs: unbounded},
	"elementMap": {maxArgs: unbounded},
	"properties": {maxArgs: unbounded},
	"id":         {},
	"label":      {},
	"key":        {},
	"value":      {},
	"path":       {},
	"select":     {minArgs: 1, maxArgs: unbounded},
	"as":         {minArgs: 1, maxArgs: unbounded},
	"project":    {minArgs: 1, maxArgs: unbounded},
	"by":         {maxArgs: 2},
	"constant":   {minArgs: 1, maxArgs: 1},
	"identity":   {},
	"unfold":     {},
	"fold":       {},

	// ordering and aggregation
	"order":      {maxArgs: 1},
	"count":      {maxArgs: 1},
	"sum":        {maxArgs: 1},
	"mean":       {maxArgs: 1},
	"max":        {maxArgs: 1},
	"min":        {maxArgs: 1},
	"groupCount": {maxArgs: 1},
	"group":      {maxArgs: 1},

	// branching
	"local":    {minArgs: 1, maxArgs: 1},
	"coalesce": {minArgs: 1, maxArgs: unbounded},
	"optional": {minArgs: 1, maxArgs: 1},
	"union":    {minArgs: 1, maxArgs: unbounded},
	"repeat":   {minArgs: 1, maxArgs: 1},
	"times":    {minArgs: 1, maxArgs: 1},
	"until":    {minArgs: 1, maxArgs: 1},
	"emit":     {maxArgs: 1},
}

var terminals = map[string]Terminal{
	string(TerminalToList):  TerminalToList,
	string(TerminalNext):    TerminalNext,
	string(TerminalHasNext): TerminalHasNext,
}

// predicates lists the comparison functions per namespace.
var predicates = map[string]map[string]bool{
	"P": {
		"eq": true, "neq": true, "lt": true, "lte": true, "gt": true, "gte": true,
		"inside": true, "outside": true, "between": true, "within": true, "without": true,
	},
	"TextP": {
		"containing": true, "notContaining": true,
		"startingWith": true, "notStartingWith": true,
		"endingWith": true, "notEndingWith": true,
	},
}

// tokens lists the enum constants per namespace.
var tokens = map[string]map[string]bool{
	"T":      {"id": true, "label": true, "key": true, "value": true},
	"Order":  {"asc": true, "desc": true, "shuffle": true},
	"Scope":  {"local": true, "global": true},
	"Column": {"keys": true, "values": true},
}

// bareTokens resolves enum constants written without their namespace, as
// they appear with static imports.
var bareTokens = map[string]Token{
	"asc":     {Namespace: "Order", Name: "asc"},
	"desc":    {Namespace: "Order", Name: "desc"},
	"shuffle": {Namespace: "Order", Name: "shuffle"},
	"local":   {Namespace: "Scope", Name: "local"},
	"global":  {Namespace: "Scope", Name: "global"},
	"keys":    {Namespace: "Column", Name: "keys"},
	"values":  {Namespace: "Column", Name: "values"},
	"id":      {Namespace: "T", Name: "id"},
	"label":   {Namespace: "T", Name: "label"},
}

// predicateNamespace returns the namespace of a bare predicate name.
func predicateNamespace(name string) (string, bool) {
	for ns, names := range predicates {
		if names[name] {
			return ns, true
		}
	}
	return "", false
}

// IsAllowedStep reports whether name is on the read-only allow-list.
func IsAllowedStep(name string) bool {
	_, ok := allowedSteps[name]
	return ok
}
