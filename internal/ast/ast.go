// Package ast defines the document tree shared by the problem parsers and the
// HTML renderer. Parsers produce these nodes from Markdown or LaTeX sources;
// the renderer consumes them without knowing which format they came from.
package ast

import "fmt"

// Node is any node in a problem document tree.
type Node interface {
	node()
}

// Container is a node holding child nodes. AddChild enforces which child
// types are legal for each container.
type Container interface {
	Node
	AddChild(child Node) error
	Children() []Node
}

// IllegalChildError reports an attempt to attach a child to a container that
// does not accept its type.
type IllegalChildError struct {
	Parent string
	Child  string
}

func (e *IllegalChildError) Error() string {
	return fmt.Sprintf("node of type %s cannot be a child of %s", e.Child, e.Parent)
}

// base holds children for container nodes.
type base struct {
	nodes []Node
}

func (b *base) Children() []Node { return b.nodes }

func (b *base) add(parent string, allowed func(Node) bool, child Node) error {
	if !allowed(child) {
		return &IllegalChildError{Parent: parent, Child: fmt.Sprintf("%T", child)}
	}
	b.nodes = append(b.nodes, child)
	return nil
}

// Problem is the root of a problem document.
type Problem struct{ base }

func (*Problem) node() {}

func (p *Problem) AddChild(child Node) error {
	return p.base.add("Problem", problemChild, child)
}

// Subproblem is a nested part of a problem. Subproblems do not nest further.
type Subproblem struct{ base }

func (*Subproblem) node() {}

func (s *Subproblem) AddChild(child Node) error {
	allowed := func(n Node) bool {
		if _, nested := n.(*Subproblem); nested {
			return false
		}
		return problemChild(n)
	}
	return s.base.add("Subproblem", allowed, child)
}

// Paragraph groups inline content.
type Paragraph struct{ base }

func (*Paragraph) node() {}

func (p *Paragraph) AddChild(child Node) error {
	return p.base.add("Paragraph", inlineChild, child)
}

// Solution holds the worked answer to a problem.
type Solution struct{ base }

func (*Solution) node() {}

func (s *Solution) AddChild(child Node) error {
	return s.base.add("Solution", bodyChild, child)
}

// MultipleChoices is a pick-one choice group.
type MultipleChoices struct{ base }

func (*MultipleChoices) node() {}

func (m *MultipleChoices) AddChild(child Node) error {
	return m.base.add("MultipleChoices", choiceOnly, child)
}

// MultipleSelect is a select-all-that-apply choice group.
type MultipleSelect struct{ base }

func (*MultipleSelect) node() {}

func (m *MultipleSelect) AddChild(child Node) error {
	return m.base.add("MultipleSelect", choiceOnly, child)
}

// Choice is one option within a choice group.
type Choice struct {
	base
	Correct bool
}

func (*Choice) node() {}

func (c *Choice) AddChild(child Node) error {
	return c.base.add("Choice", bodyChild, child)
}

// FillInTheBlank is a free-response blank, optionally with prompt content.
type FillInTheBlank struct{ base }

func (*FillInTheBlank) node() {}

func (f *FillInTheBlank) AddChild(child Node) error {
	return f.base.add("FillInTheBlank", bodyChild, child)
}

// NormalText is unformatted text.
type NormalText struct{ Text string }

func (*NormalText) node() {}

// BoldText is bolded text.
type BoldText struct{ Text string }

func (*BoldText) node() {}

// ItalicText is italicized text.
type ItalicText struct{ Text string }

func (*ItalicText) node() {}

// InlineMath is TeX typeset inline.
type InlineMath struct{ TeX string }

func (*InlineMath) node() {}

// DisplayMath is TeX typeset as display math.
type DisplayMath struct{ TeX string }

func (*DisplayMath) node() {}

// Code is a block of code.
type Code struct {
	Language string
	Code     string
}

func (*Code) node() {}

// InlineCode is code displayed inline.
type InlineCode struct {
	Language string
	Code     string
}

func (*InlineCode) node() {}

// Image references an asset relative to the problem's directory.
type Image struct {
	RelativePath string
}

func (*Image) node() {}

// TrueFalse is a true/false question with its answer.
type TrueFalse struct{ Solution bool }

func (*TrueFalse) node() {}

func inlineChild(n Node) bool {
	switch n.(type) {
	case *NormalText, *BoldText, *ItalicText, *InlineMath, *InlineCode:
		return true
	}
	return false
}

// bodyChild is the content set allowed inside choices, solutions, and blanks.
func bodyChild(n Node) bool {
	switch n.(type) {
	case *DisplayMath, *Code, *Image, *Paragraph:
		return true
	}
	return inlineChild(n)
}

func problemChild(n Node) bool {
	switch n.(type) {
	case *Subproblem, *MultipleChoices, *MultipleSelect, *TrueFalse, *FillInTheBlank, *Solution:
		return true
	}
	return bodyChild(n)
}

func choiceOnly(n Node) bool {
	_, ok := n.(*Choice)
	return ok
}

// Append adds children to a container, stopping at the first illegal child.
func Append(c Container, children ...Node) error {
	for _, child := range children {
		if err := c.AddChild(child); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every node in the tree in depth-first order.
func Walk(n Node, visit func(Node)) {
	visit(n)
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, visit)
		}
	}
}
