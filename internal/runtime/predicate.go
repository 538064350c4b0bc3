package runtime

import (
	"context"
	"fmt"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

// Predicate is a Risor script deciding whether a node belongs to a class.
type Predicate struct {
	rt     *Runtime
	label  string
	source string
}

// Predicate wraps inline Risor source.
func (r *Runtime) Predicate(source string) *Predicate {
	return &Predicate{rt: r, label: "<inline>", source: source}
}

// LoadPredicate reads a predicate script through LoadScript.
func (r *Runtime) LoadPredicate(path string) (*Predicate, error) {
	src, err := r.LoadScript(path)
	if err != nil {
		return nil, err
	}
	return &Predicate{rt: r, label: path, source: src}, nil
}

// Label names the script in logs and errors.
func (p *Predicate) Label() string { return p.label }

// Eval runs the script against n. The node is bound to "node", the
// document frontmatter to "frontmatter"; "select_nodes" and "node_by_id" search
// the document rooted at ec.Root.
func (p *Predicate) Eval(ctx context.Context, ec *edge.Context, n *mdast.Node) (bool, error) {
	var (
		root *mdast.Node
		fm   map[string]any
	)
	if ec != nil {
		root, fm = ec.Root, ec.Frontmatter
	}
	result, err := p.rt.eval(ctx, p.source, p.label, map[string]any{
		"node":         nodeObject(n),
		"frontmatter":  frontmatterObject(fm),
		"select_nodes": makeSelectFn(root),
		"node_by_id":   makeNodeFn(root),
	})
	if err != nil {
		return false, err
	}
	if result == nil {
		return false, nil
	}
	return result.IsTruthy(), nil
}

// Match is Eval for rule callbacks, which cannot fail: a script error is
// logged and counts as no match.
func (p *Predicate) Match(ec *edge.Context, n *mdast.Node) bool {
	ok, err := p.Eval(context.Background(), ec, n)
	if err != nil {
		p.rt.logger.Warn("predicate failed",
			"script", p.label,
			"node", n.ID,
			"error", err,
		)
		return false
	}
	return ok
}

// Rule tags every node the script selects with a rel edge from the root.
func (p *Predicate) Rule(rel edge.Relationship) edge.Rule {
	return rules.MatchingContext(rel, p.Match)
}

// RoleRule is Rule with the role:<role> relationship.
func (p *Predicate) RoleRule(role string) edge.Rule {
	return p.Rule(rules.Role(role))
}

func (p *Predicate) String() string {
	return fmt.Sprintf("predicate(%s)", p.label)
}
