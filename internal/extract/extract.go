// Package extract classifies source constructs into catalog entities using
// tree-sitter. Extraction is best-effort: a file that cannot be parsed
// returns an error for the caller to record, never a panic.
package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/repoadvisor/internal/lang"
	"github.com/phobologic/repoadvisor/internal/model"
)

// Definition is a classified entity occurrence in a single file.
type Definition struct {
	Name      string
	Kind      model.EntityKind
	Line      int
	Fields    []model.Field
	Signature string
}

// Reference is a call-site occurrence, attributed to its enclosing
// definition when one exists.
type Reference struct {
	Name      string
	Enclosing string
	Line      int
}

// Result holds everything extracted from one file.
type Result struct {
	Definitions []Definition
	References  []Reference
}

var schemaBuilders = map[string]struct{}{
	"defineTable": {},
	"pgTable":     {},
	"mysqlTable":  {},
	"sqliteTable": {},
	"createTable": {},
}

var readMarkers = map[string]struct{}{
	"query":         {},
	"internalQuery": {},
}

var writeMarkers = map[string]struct{}{
	"mutation":         {},
	"internalMutation": {},
	"action":           {},
	"internalAction":   {},
}

var routeVerbs = map[string]struct{}{
	"get":    {},
	"post":   {},
	"put":    {},
	"patch":  {},
	"delete": {},
	"use":    {},
}

var captureKinds = map[string]struct{}{
	"definition.function": {},
	"definition.binding":  {},
	"definition.arrow":    {},
	"reference.call":      {},
	"reference.member":    {},
}

// File parses a source file and returns classified definitions and
// references. The parser must be created for the correct language.
func File(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte) (Result, error) {
	var res Result
	if len(source) == 0 {
		return res, nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return res, err
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, defNode, markerNode *sitter.Node
		var captureName string

		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			switch cname {
			case "name":
				nameNode = c.Node
			case "marker":
				markerNode = c.Node
			default:
				if _, known := captureKinds[cname]; known {
					captureName = cname
					defNode = c.Node
				}
			}
		}

		if nameNode == nil || captureName == "" || defNode == nil {
			continue
		}

		name := lang.NodeText(nameNode, source)
		line := int(nameNode.StartPoint().Row) + 1

		switch captureName {
		case "definition.function", "definition.arrow":
			if def, ok := classifyFunction(l, defNode, name, line, source); ok {
				res.Definitions = append(res.Definitions, def)
			}
		case "definition.binding":
			marker := lang.NodeText(markerNode, source)
			if def, ok := classifyBinding(defNode, name, marker, line, source); ok {
				res.Definitions = append(res.Definitions, def)
			}
		case "reference.call":
			res.References = append(res.References, Reference{
				Name:      name,
				Enclosing: enclosingDefinition(defNode, source),
				Line:      line,
			})
		case "reference.member":
			if def, ok := classifyRoute(defNode, name, line, source); ok {
				res.Definitions = append(res.Definitions, def)
				continue
			}
			res.References = append(res.References, Reference{
				Name:      name,
				Enclosing: enclosingDefinition(defNode, source),
				Line:      line,
			})
		}
	}

	return res, nil
}

// classifyFunction recognizes stateful hooks (use* naming) and UI components
// (capitalized name with a markup-producing body).
func classifyFunction(l *lang.Language, defNode *sitter.Node, name string, line int, source []byte) (Definition, bool) {
	params := extractParams(defNode, source)

	if isHookName(name) {
		return Definition{
			Name:      name,
			Kind:      model.StatefulHook,
			Line:      line,
			Fields:    params,
			Signature: callSignature(name, params),
		}, true
	}

	if isCapitalized(name) && l.JSX && containsJSX(defNode) {
		return Definition{
			Name:      name,
			Kind:      model.UIComponent,
			Line:      line,
			Fields:    params,
			Signature: callSignature(name, params),
		}, true
	}

	return Definition{}, false
}

// classifyBinding recognizes schema-definition constructs and decorated
// read/write operations; hook factories (const useX = create(...)) fall
// back to hook naming.
func classifyBinding(defNode *sitter.Node, name, marker string, line int, source []byte) (Definition, bool) {
	if _, ok := schemaBuilders[marker]; ok {
		fields := schemaFields(defNode, source)
		return Definition{
			Name:      name,
			Kind:      model.DataStore,
			Line:      line,
			Fields:    fields,
			Signature: callSignature(marker, fields),
		}, true
	}

	if _, ok := readMarkers[marker]; ok {
		fields := opArgs(defNode, source)
		return Definition{
			Name:      name,
			Kind:      model.ReadOperation,
			Line:      line,
			Fields:    fields,
			Signature: callSignature(marker, fields),
		}, true
	}

	if _, ok := writeMarkers[marker]; ok {
		fields := opArgs(defNode, source)
		return Definition{
			Name:      name,
			Kind:      model.WriteOperation,
			Line:      line,
			Fields:    fields,
			Signature: callSignature(marker, fields),
		}, true
	}

	if isHookName(name) {
		return Definition{
			Name:      name,
			Kind:      model.StatefulHook,
			Line:      line,
			Signature: name + "()",
		}, true
	}

	return Definition{}, false
}

// classifyRoute recognizes router.get("/path", ...) style registrations.
// defNode is the call_expression of a member call.
func classifyRoute(defNode *sitter.Node, verb string, line int, source []byte) (Definition, bool) {
	if _, ok := routeVerbs[verb]; !ok {
		return Definition{}, false
	}
	path, ok := firstStringArg(defNode, source)
	if !ok {
		return Definition{}, false
	}
	name := strings.ToUpper(verb) + " " + path
	return Definition{
		Name:      name,
		Kind:      model.Route,
		Line:      line,
		Signature: name,
	}, true
}

func isHookName(name string) bool {
	return len(name) > 3 && strings.HasPrefix(name, "use") && name[3] >= 'A' && name[3] <= 'Z'
}

func isCapitalized(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// containsJSX walks a definition subtree looking for jsx_* nodes.
func containsJSX(node *sitter.Node) bool {
	if strings.HasPrefix(node.Type(), "jsx_") {
		return true
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if containsJSX(node.NamedChild(i)) {
			return true
		}
	}
	return false
}

// extractParams collects (name, type) pairs from the parameter list of a
// function_declaration or an arrow-function binding.
func extractParams(defNode *sitter.Node, source []byte) []model.Field {
	paramList := findParamList(defNode)
	if paramList == nil {
		return nil
	}

	var fields []model.Field
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		child := paramList.NamedChild(i)
		switch child.Type() {
		case "identifier":
			fields = append(fields, model.Field{Name: lang.NodeText(child, source), Type: "any"})
		case "required_parameter", "optional_parameter":
			fields = append(fields, typedParam(child, source)...)
		case "object_pattern":
			fields = append(fields, patternFields(child, source)...)
		}
	}
	return fields
}

func findParamList(node *sitter.Node) *sitter.Node {
	if node.Type() == "function_declaration" {
		return node.ChildByFieldName("parameters")
	}
	// Arrow binding: variable_declarator → arrow_function → parameters.
	value := node.ChildByFieldName("value")
	if value != nil && value.Type() == "arrow_function" {
		return value.ChildByFieldName("parameters")
	}
	return nil
}

func typedParam(param *sitter.Node, source []byte) []model.Field {
	pattern := param.ChildByFieldName("pattern")
	if pattern == nil {
		return nil
	}

	typ := "any"
	if ann := param.ChildByFieldName("type"); ann != nil {
		typ = strings.TrimPrefix(lang.CollapseWhitespace(lang.NodeText(ann, source)), ": ")
	}

	switch pattern.Type() {
	case "identifier":
		return []model.Field{{Name: lang.NodeText(pattern, source), Type: typ}}
	case "object_pattern":
		return patternFields(pattern, source)
	}
	return nil
}

// patternFields lists the keys of a destructured object parameter (props).
func patternFields(pattern *sitter.Node, source []byte) []model.Field {
	var fields []model.Field
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		child := pattern.NamedChild(i)
		switch child.Type() {
		case "shorthand_property_identifier_pattern":
			fields = append(fields, model.Field{Name: lang.NodeText(child, source), Type: "any"})
		case "pair_pattern":
			if key := child.ChildByFieldName("key"); key != nil {
				fields = append(fields, model.Field{Name: lang.NodeText(key, source), Type: "any"})
			}
		}
	}
	return fields
}

// schemaFields lists column names and builder expressions from the object
// argument of a schema-builder call.
func schemaFields(defNode *sitter.Node, source []byte) []model.Field {
	obj := firstObjectArg(defNode)
	if obj == nil {
		return nil
	}
	return objectPairs(obj, source)
}

// opArgs lists the declared args of a query/mutation wrapper: the object
// value of an "args" key inside the wrapper's object argument.
func opArgs(defNode *sitter.Node, source []byte) []model.Field {
	obj := firstObjectArg(defNode)
	if obj == nil {
		return nil
	}
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		if key == nil || pairKeyName(key, source) != "args" {
			continue
		}
		value := pair.ChildByFieldName("value")
		if value != nil && value.Type() == "object" {
			return objectPairs(value, source)
		}
	}
	return nil
}

func objectPairs(obj *sitter.Node, source []byte) []model.Field {
	var fields []model.Field
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		if key == nil {
			continue
		}
		typ := "any"
		if value := pair.ChildByFieldName("value"); value != nil {
			typ = truncate(lang.CollapseWhitespace(lang.NodeText(value, source)), 32)
		}
		fields = append(fields, model.Field{Name: pairKeyName(key, source), Type: typ})
	}
	return fields
}

func pairKeyName(key *sitter.Node, source []byte) string {
	return strings.Trim(lang.NodeText(key, source), "\"'`")
}

// firstObjectArg finds the first object literal among a binding's call
// arguments. defNode is the variable_declarator.
func firstObjectArg(defNode *sitter.Node) *sitter.Node {
	value := defNode.ChildByFieldName("value")
	if value == nil || value.Type() != "call_expression" {
		return nil
	}
	args := value.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if arg := args.NamedChild(i); arg.Type() == "object" {
			return arg
		}
	}
	return nil
}

// firstStringArg returns the unquoted first string argument of a call.
func firstStringArg(callNode *sitter.Node, source []byte) (string, bool) {
	args := callNode.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", false
	}
	first := args.NamedChild(0)
	if first.Type() != "string" && first.Type() != "template_string" {
		return "", false
	}
	return strings.Trim(lang.NodeText(first, source), "\"'`"), true
}

// enclosingDefinition walks up from a call site to the nearest named
// function or binding and returns its name, or "" at module level.
func enclosingDefinition(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "function_declaration":
			if name := current.ChildByFieldName("name"); name != nil {
				return lang.NodeText(name, source)
			}
		case "variable_declarator":
			if name := current.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				return lang.NodeText(name, source)
			}
		case "method_definition":
			if name := current.ChildByFieldName("name"); name != nil {
				return lang.NodeText(name, source)
			}
		}
		current = current.Parent()
	}
	return ""
}

func callSignature(name string, fields []model.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return name + "(" + strings.Join(names, ", ") + ")"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
