package kanjivg

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/verte-zerg/kakitori/internal/glyph"
)

// matrixPattern pulls the translation column out of a text label's
// transform attribute, e.g. transform="matrix(1 0 0 1 45.50 13.50)".
var matrixPattern = regexp.MustCompile(`matrix\([^)]* ([\d.\-]+) ([\d.\-]+)\)`)

type svgNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []svgNode  `xml:",any"`
	Text    string     `xml:",chardata"`
}

func (n *svgNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// ExtractGlyph parses a KanjiVG SVG document into stroke path descriptors
// in document order plus the stroke-number labels, when present.
func ExtractGlyph(svgText, char string) (glyph.RawGlyph, error) {
	var root svgNode
	if err := xml.Unmarshal([]byte(svgText), &root); err != nil {
		return glyph.RawGlyph{}, fmt.Errorf("parse stroke diagram: %w", err)
	}

	group := findElementGroup(&root, char)
	if group == nil {
		return glyph.RawGlyph{}, fmt.Errorf("no stroke group for %q: %w", char, glyph.ErrNotFound)
	}

	raw := glyph.RawGlyph{}
	collectPaths(group, &raw.Paths)
	if len(raw.Paths) == 0 {
		return glyph.RawGlyph{}, fmt.Errorf("empty stroke group for %q: %w", char, glyph.ErrNotFound)
	}

	if numbers := findNumbersGroup(&root); numbers != nil {
		raw.Labels = collectLabels(numbers)
	}
	return raw, nil
}

// findElementGroup locates the g element annotated with the character, the
// root of its stroke paths.
func findElementGroup(n *svgNode, char string) *svgNode {
	if n.XMLName.Local == "g" && n.attr("element") == char {
		return n
	}
	for i := range n.Nodes {
		if found := findElementGroup(&n.Nodes[i], char); found != nil {
			return found
		}
	}
	return nil
}

func collectPaths(n *svgNode, out *[]string) {
	if n.XMLName.Local == "path" {
		if d := n.attr("d"); d != "" {
			*out = append(*out, d)
		}
		return
	}
	for i := range n.Nodes {
		collectPaths(&n.Nodes[i], out)
	}
}

func findNumbersGroup(n *svgNode) *svgNode {
	if n.XMLName.Local == "g" && strings.HasPrefix(n.attr("id"), "kvg:StrokeNumbers_") {
		return n
	}
	for i := range n.Nodes {
		if found := findNumbersGroup(&n.Nodes[i]); found != nil {
			return found
		}
	}
	return nil
}

// collectLabels reads stroke-number text elements; entries without a usable
// transform or number are skipped.
func collectLabels(numbers *svgNode) []glyph.Label {
	var labels []glyph.Label
	for i := range numbers.Nodes {
		node := &numbers.Nodes[i]
		if node.XMLName.Local != "text" {
			continue
		}
		m := matrixPattern.FindStringSubmatch(node.attr("transform"))
		if m == nil {
			continue
		}
		x, errX := strconv.ParseFloat(m[1], 64)
		y, errY := strconv.ParseFloat(m[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(node.Text))
		if err != nil {
			continue
		}
		labels = append(labels, glyph.Label{Number: number, X: x, Y: y})
	}
	return labels
}
