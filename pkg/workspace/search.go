package workspace

import (
	"cmp"
	"strings"

	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/infer"
)

// Comparison operators accepted by [Workspace.FindNodesByAttribute].
const (
	OpEq = "=="
	OpNe = "!="
	OpGt = ">"
	OpGe = ">="
	OpLt = "<"
	OpLe = "<="
)

// Operators lists the supported comparison operators.
var Operators = []string{OpEq, OpNe, OpGt, OpGe, OpLt, OpLe}

// FindNodesByLabel returns nodes whose display label contains substr,
// ignoring case.
func (w *Workspace) FindNodesByLabel(substr string) []*graph.Node {
	needle := strings.ToLower(substr)
	return w.FilterNodes(func(n *graph.Node) bool {
		return strings.Contains(strings.ToLower(n.DisplayLabel()), needle)
	})
}

// FindNodesByAttribute returns nodes whose attribute attr compares to value
// under op. Both sides are coerced through [infer.Infer] first, so "10" is
// greater than "9" and "2024-02-01" is after "2024-01-31".
//
// Nodes without the attribute fall back to their label for "label" and
// "name", and to their id for "id" and "node_id"; other nodes are skipped.
// Pairs that cannot be ordered (a number against a date, say) never match an
// ordering operator; for "==" they are unequal and for "!=" they differ.
func (w *Workspace) FindNodesByAttribute(attr, op, value string) ([]*graph.Node, error) {
	match, err := comparator(op)
	if err != nil {
		return nil, err
	}
	want := infer.Infer(value)
	return w.FilterNodes(func(n *graph.Node) bool {
		raw, ok := lookup(n, attr)
		if !ok {
			return false
		}
		return match(infer.Infer(raw), want)
	}), nil
}

// FindEdgesByWeight returns edges whose weight lies within [min, max]. A nil
// bound is open.
func (w *Workspace) FindEdgesByWeight(min, max *float64) []*graph.Edge {
	return w.FilterEdges(func(e *graph.Edge) bool {
		if min != nil && e.Weight < *min {
			return false
		}
		if max != nil && e.Weight > *max {
			return false
		}
		return true
	})
}

// FindEdgesByAttribute returns edges whose attribute key equals value after
// inference, so "3" matches the integer 3.
func (w *Workspace) FindEdgesByAttribute(key, value string) []*graph.Edge {
	want := infer.Infer(value)
	return w.FilterEdges(func(e *graph.Edge) bool {
		raw, ok := e.Attributes[key]
		if !ok {
			return false
		}
		c, ok := compare(infer.Infer(raw), want)
		return ok && c == 0
	})
}

func lookup(n *graph.Node, attr string) (any, bool) {
	if v, ok := n.Attributes[attr]; ok && v != nil {
		return v, true
	}
	switch attr {
	case "label", "name":
		return n.DisplayLabel(), true
	case "id", "node_id":
		return n.ID, true
	}
	return nil, false
}

func comparator(op string) (func(a, b any) bool, error) {
	switch op {
	case OpEq:
		return func(a, b any) bool { c, ok := compare(a, b); return ok && c == 0 }, nil
	case OpNe:
		return func(a, b any) bool { c, ok := compare(a, b); return !ok || c != 0 }, nil
	case OpGt:
		return func(a, b any) bool { c, ok := compare(a, b); return ok && c > 0 }, nil
	case OpGe:
		return func(a, b any) bool { c, ok := compare(a, b); return ok && c >= 0 }, nil
	case OpLt:
		return func(a, b any) bool { c, ok := compare(a, b); return ok && c < 0 }, nil
	case OpLe:
		return func(a, b any) bool { c, ok := compare(a, b); return ok && c <= 0 }, nil
	}
	return nil, gerrors.New(gerrors.ErrCodeInvalidInput,
		"unsupported operator %q (want one of %s)", op, strings.Join(Operators, " "))
}

// compare orders two inferred values. ok is false when the kinds differ and
// cannot be ordered against each other.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), true
		case float64:
			return cmp.Compare(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, float64(y)), true
		case float64:
			return cmp.Compare(x, y), true
		}
	case infer.Date:
		if y, ok := b.(infer.Date); ok {
			return x.Compare(y), true
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	}
	return 0, false
}
