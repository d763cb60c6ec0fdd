package recent

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func decodeTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	var root element
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode xml: empty document")
		}
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	if err := ensureNoTrailingMarkup(dec); err != nil {
		return nil, err
	}
	return &root, nil
}

// charsetReader decodes stores that declare a non-UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func ensureNoTrailingMarkup(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst, xml.Directive:
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return errors.New("decode xml: text after document element")
			}
		default:
			return errors.New("decode xml: markup after document element")
		}
	}
}

func (e *element) name() string {
	return e.XMLName.Local
}

func (e *element) attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == key {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child with the given name.
func (e *element) child(name string) *element {
	for i := range e.Children {
		if e.Children[i].name() == name {
			return &e.Children[i]
		}
	}
	return nil
}

func (e *element) children(name string) []*element {
	var out []*element
	for i := range e.Children {
		if e.Children[i].name() == name {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// descendants walks the subtree below e in document order, excluding e itself.
// Walking stops when visit returns false.
func (e *element) descendants(visit func(*element) bool) bool {
	for i := range e.Children {
		c := &e.Children[i]
		if !visit(c) {
			return false
		}
		if !c.descendants(visit) {
			return false
		}
	}
	return true
}

func (e *element) findAll(name string) []*element {
	var out []*element
	e.descendants(func(c *element) bool {
		if c.name() == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (e *element) find(match func(*element) bool) *element {
	var found *element
	e.descendants(func(c *element) bool {
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

func named(name string) func(*element) bool {
	return func(e *element) bool { return e.name() == name }
}

func namedOption(optionName string) func(*element) bool {
	return func(e *element) bool {
		if e.name() != "option" {
			return false
		}
		v, ok := e.attr("name")
		return ok && v == optionName
	}
}
