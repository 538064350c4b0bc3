package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/risor-io/risor/object"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// nodeObject exposes n to scripts as a map. Risor cannot call methods on
// *mdast.Node usefully, so the fields scripts need are copied out.
func nodeObject(n *mdast.Node) object.Object {
	if n == nil {
		return object.Nil
	}
	info := mdast.CodeInfoOf(n)
	deps := make([]object.Object, 0, len(info.Deps))
	for _, d := range info.Deps {
		deps = append(deps, object.NewString(d))
	}
	children := make([]object.Object, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, object.NewInt(int64(c.ID)))
	}
	return object.NewMap(map[string]object.Object{
		"id":       object.NewInt(int64(n.ID)),
		"type":     object.NewString(n.Type),
		"depth":    object.NewInt(int64(n.Depth)),
		"value":    object.NewString(n.Value),
		"lang":     object.NewString(n.Lang),
		"meta":     object.NewString(n.Meta),
		"url":      object.NewString(n.URL),
		"name":     object.NewString(n.Name),
		"text":     object.NewString(mdast.ToString(n)),
		"line":     object.NewInt(int64(n.Pos.StartLine)),
		"identity": object.NewString(info.Identity),
		"deps":     object.NewList(deps),
		"children": object.NewList(children),
	})
}

// toObject converts decoded YAML/JSON values into Risor objects. Unknown
// types are rendered with %v.
func toObject(v any) object.Object {
	switch x := v.(type) {
	case nil:
		return object.Nil
	case string:
		return object.NewString(x)
	case bool:
		return object.NewBool(x)
	case int:
		return object.NewInt(int64(x))
	case int64:
		return object.NewInt(x)
	case uint64:
		return object.NewInt(int64(x))
	case float64:
		return object.NewFloat(x)
	case []any:
		items := make([]object.Object, 0, len(x))
		for _, item := range x {
			items = append(items, toObject(item))
		}
		return object.NewList(items)
	case map[string]any:
		m := make(map[string]object.Object, len(x))
		for k, item := range x {
			m[k] = toObject(item)
		}
		return object.NewMap(m)
	default:
		return object.NewString(fmt.Sprintf("%v", x))
	}
}

// makeSelectFn creates the "select_nodes" host function bound to one document.
//
// select_nodes(selector) → []node
func makeSelectFn(root *mdast.Node) *object.Builtin {
	return object.NewBuiltin("select_nodes", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("select_nodes", 1, len(args))
		}
		selStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("select_nodes: selector must be a string, got %s", args[0].Type())
		}
		if root == nil {
			return object.NewList([]object.Object{})
		}
		hits, err := mdast.Select(root, selStr.Value())
		if err != nil {
			return object.Errorf("select_nodes: %v", err)
		}
		out := make([]object.Object, 0, len(hits))
		for _, n := range hits {
			out = append(out, nodeObject(n))
		}
		return object.NewList(out)
	})
}

// makeNodeFn creates the "node_by_id" host function bound to one document.
//
// node_by_id(id) → node or nil
func makeNodeFn(root *mdast.Node) *object.Builtin {
	return object.NewBuiltin("node_by_id", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("node_by_id", 1, len(args))
		}
		id, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("node_by_id: id must be an int, got %s", args[0].Type())
		}
		if root == nil {
			return object.Nil
		}
		want := int(id.Value())
		return nodeObject(mdast.Find(root, func(n *mdast.Node) bool { return n.ID == want }))
	})
}

// makeCodeQueryFn creates the "code_query" host function. It parses a code
// fence's contents with the grammar for its language tag and runs a
// tree-sitter query over it.
//
// code_query(node, pattern) → []map[capture]text
func makeCodeQueryFn() *object.Builtin {
	return object.NewBuiltin("code_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("code_query", 2, len(args))
		}
		nodeMap, ok := args[0].(*object.Map)
		if !ok {
			return object.Errorf("code_query: node must be a map, got %s", args[0].Type())
		}
		patternStr, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("code_query: pattern must be a string, got %s", args[1].Type())
		}

		fields := nodeMap.Value()
		tag := stringField(fields, "lang")
		lang, ok := LanguageForFence(tag)
		if !ok {
			return object.Errorf("code_query: unsupported language %q", tag)
		}
		grammar, _ := GrammarForLanguage(lang)
		src := []byte(stringField(fields, "value"))

		matches, err := queryCode(ctx, grammar, src, patternStr.Value())
		if err != nil {
			return object.Errorf("code_query: %v", err)
		}
		results := make([]object.Object, 0, len(matches))
		for _, m := range matches {
			mm := make(map[string]object.Object, len(m))
			for name, text := range m {
				mm[name] = object.NewString(text)
			}
			results = append(results, object.NewMap(mm))
		}
		return object.NewList(results)
	})
}

// queryCode parses src with grammar and returns one capture-name → text map
// per query match.
func queryCode(ctx context.Context, grammar *sitter.Language, src []byte, pattern string) ([]map[string]string, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(pattern), grammar)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, tree.RootNode())

	var out []map[string]string
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, src)
		if len(match.Captures) == 0 {
			continue
		}
		m := make(map[string]string, len(match.Captures))
		for _, c := range match.Captures {
			m[q.CaptureNameForId(c.Index)] = c.Node.Content(src)
		}
		out = append(out, m)
	}
	return out, nil
}

func stringField(m map[string]object.Object, key string) string {
	if s, ok := m[key].(*object.String); ok {
		return s.Value()
	}
	return ""
}

// logObject provides log.Info/Warn/Error to scripts, routed to slog.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "risor")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "risor")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "risor")
}

// frontmatterObject converts document frontmatter; a missing block becomes
// an empty map so scripts can index it unconditionally.
func frontmatterObject(fm map[string]any) object.Object {
	if fm == nil {
		return object.NewMap(map[string]object.Object{})
	}
	return toObject(fm)
}
