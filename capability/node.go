package capability

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Node is a loosely decoded XML element. Gateways add and drop elements between firmware releases, so
// elements are walked by name rather than bound to fixed structs.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

func ParseNode(data []byte) (*Node, error) {
	n := &Node{}

	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(n); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Node) Name() string {
	if n == nil {
		return ""
	}

	return n.XMLName.Local
}

// Child walks the path of element names, returning nil if any step is missing.
func (n *Node) Child(path ...string) *Node {
	current := n

	for _, name := range path {
		if current == nil {
			return nil
		}

		var next *Node

		for _, c := range current.Children {
			if c.XMLName.Local == name {
				next = c
				break
			}
		}

		current = next
	}

	return current
}

func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}

	var found []*Node

	for _, c := range n.Children {
		if c.XMLName.Local == name {
			found = append(found, c)
		}
	}

	return found
}

func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}

	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}

	return "", false
}

func (n *Node) AttrOr(name string, def string) string {
	if v, found := n.Attr(name); found {
		return v
	}

	return def
}

func (n *Node) Value() string {
	if n == nil {
		return ""
	}

	return strings.TrimSpace(n.Text)
}

func (n *Node) ChildValue(path ...string) string {
	return n.Child(path...).Value()
}
