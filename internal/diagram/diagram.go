// Package diagram recognizes box-and-connector ASCII architecture diagrams
// drawn with Unicode box glyphs inside a plan's Architecture Overview
// fenced block. The grid is addressed in runes, not bytes: every box glyph
// is a multibyte UTF-8 sequence and byte offsets would shear the geometry.
package diagram

import (
	"regexp"
	"strconv"
	"strings"
)

// Node is one recognized box. Label is the first non-empty interior line;
// Content joins all of them. Geometry is in grid cells, width and height
// measured corner to corner.
type Node struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Content string `json:"content"`
	Type    string `json:"type"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Edge connects two nodes joined by a vertical connector run. Edges are
// undirected for dedup purposes: a second connector between the same pair
// in either order is dropped.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Label *string `json:"label"`
}

// Diagram is the recognized graph plus the raw fenced text it came from.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Raw   string `json:"raw"`
}

var (
	architectureHeading = regexp.MustCompile(`(?m)^## Architecture Overview\s*$`)
	fencedBlockPattern  = regexp.MustCompile("```" + `\w*` + "\n((?s).*?)" + "```")
)

var topEdgeGlyphs = map[rune]bool{'─': true, '┬': true, '┴': true, '┼': true}
var leftEdgeGlyphs = map[rune]bool{'│': true, '├': true, '┤': true, '┼': true}
var connectorGlyphs = map[rune]bool{
	'│': true, '─': true, '┬': true, '┴': true, '├': true, '┤': true,
	'┼': true, '┌': true, '┐': true, '└': true, '┘': true,
}
var verticalGlyphs = map[rune]bool{'│': true, '┬': true, '┴': true, '┤': true, '├': true}

type box struct{ x, y, x2, y2 int }

// Parse recognizes the diagram in the first fenced block after the
// Architecture Overview heading. Returns nil when the heading or block is
// absent.
func Parse(content string) *Diagram {
	loc := architectureHeading.FindStringIndex(content)
	if loc == nil {
		return nil
	}
	m := fencedBlockPattern.FindStringSubmatch(content[loc[0]:])
	if m == nil {
		return nil
	}
	raw := m[1]

	lines := strings.Split(raw, "\n")
	grid := make([][]rune, len(lines))
	width := 0
	for i, l := range lines {
		grid[i] = []rune(l)
		if len(grid[i]) > width {
			width = len(grid[i])
		}
	}
	height := len(grid)

	boxCells := make([][]bool, height)
	for i := range boxCells {
		boxCells[i] = make([]bool, width)
	}

	var nodes []Node
	for y := 0; y < height; y++ {
		for x := 0; x < len(grid[y]); x++ {
			if grid[y][x] != '┌' {
				continue
			}
			b := traceBox(grid, x, y)
			if b == nil {
				continue
			}
			for by := b.y; by <= b.y2; by++ {
				for bx := b.x; bx <= b.x2; bx++ {
					boxCells[by][bx] = true
				}
			}
			if node := boxNode(grid, b, len(nodes)); node != nil {
				nodes = append(nodes, *node)
			}
		}
	}

	nodes = leafNodes(nodes)
	if nodes == nil {
		nodes = []Node{}
	}
	edges := findEdges(grid, nodes, boxCells, width, height)

	return &Diagram{Nodes: nodes, Edges: edges, Raw: raw}
}

// traceBox walks the top edge right to ┐ and the left edge down to └, then
// requires ┘ at the far corner. Any stray glyph on either edge rejects the
// box.
func traceBox(grid [][]rune, startX, startY int) *box {
	row := grid[startY]
	x2 := startX + 1
	for x2 < len(row) && row[x2] != '┐' {
		if !topEdgeGlyphs[row[x2]] {
			return nil
		}
		x2++
	}
	if x2 >= len(row) {
		return nil
	}

	y2 := startY + 1
	for y2 < len(grid) && !(startX < len(grid[y2]) && grid[y2][startX] == '└') {
		if startX >= len(grid[y2]) || !leftEdgeGlyphs[grid[y2][startX]] {
			return nil
		}
		y2++
	}
	if y2 >= len(grid) {
		return nil
	}
	if x2 >= len(grid[y2]) || grid[y2][x2] != '┘' {
		return nil
	}
	return &box{x: startX, y: startY, x2: x2, y2: y2}
}

// boxNode extracts the interior text of a box. Boxes with no interior text
// (pure frames) produce no node.
func boxNode(grid [][]rune, b *box, idx int) *Node {
	var textLines []string
	for by := b.y + 1; by < b.y2; by++ {
		row := grid[by]
		lo, hi := b.x+1, b.x2
		if lo > len(row) {
			lo = len(row)
		}
		if hi > len(row) {
			hi = len(row)
		}
		text := strings.TrimSpace(strings.ReplaceAll(string(row[lo:hi]), "│", " "))
		if text != "" {
			textLines = append(textLines, text)
		}
	}
	if len(textLines) == 0 {
		return nil
	}
	return &Node{
		ID:      nodeID(idx),
		Label:   textLines[0],
		Content: strings.Join(textLines, "\n"),
		Type:    "default",
		X:       b.x,
		Y:       b.y,
		Width:   b.x2 - b.x,
		Height:  b.y2 - b.y,
	}
}

func nodeID(idx int) string {
	return "node-" + strconv.Itoa(idx)
}

// leafNodes drops any node that strictly contains another node. Container
// frames drawn around groups of boxes are decoration, not components. Kept
// nodes retain the ids they were assigned at detection time.
func leafNodes(nodes []Node) []Node {
	var leaves []Node
	for _, n := range nodes {
		containsOther := false
		for _, other := range nodes {
			if other.ID == n.ID {
				continue
			}
			if other.X > n.X && other.Y > n.Y &&
				other.X+other.Width < n.X+n.Width &&
				other.Y+other.Height < n.Y+n.Height {
				containsOther = true
				break
			}
		}
		if !containsOther {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// findEdges scans each column top to bottom. Crossing a node's top or
// bottom border resets the run; a vertical connector glyph outside every
// box between two different nodes' borders yields an edge. A text fragment
// to the right of a connector becomes the edge label.
func findEdges(grid [][]rune, nodes []Node, boxCells [][]bool, width, height int) []Edge {
	edges := []Edge{}
	for x := 0; x < width; x++ {
		lastBoxIdx := -1
		hasConnector := false
		labelText := ""
		for y := 0; y < height; y++ {
			var ch rune = ' '
			if x < len(grid[y]) {
				ch = grid[y][x]
			}
			for ni := range nodes {
				n := &nodes[ni]
				if x < n.X || x > n.X+n.Width {
					continue
				}
				if y != n.Y && y != n.Y+n.Height {
					continue
				}
				if lastBoxIdx >= 0 && lastBoxIdx != ni && hasConnector && !hasEdge(edges, nodes[lastBoxIdx].ID, n.ID) {
					var label *string
					if trimmed := strings.TrimSpace(labelText); trimmed != "" {
						label = &trimmed
					}
					edges = append(edges, Edge{From: nodes[lastBoxIdx].ID, To: n.ID, Label: label})
				}
				lastBoxIdx = ni
				hasConnector = false
				labelText = ""
			}
			if !boxCells[y][x] && verticalGlyphs[ch] {
				hasConnector = true
				if x+1 < len(grid[y]) {
					rest := strings.TrimSpace(string(grid[y][x+1:]))
					if rest != "" && !connectorGlyphs[[]rune(rest)[0]] {
						labelText = firstLabelSegment(rest)
					}
				}
			}
		}
	}
	return edges
}

func hasEdge(edges []Edge, a, b string) bool {
	for _, e := range edges {
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return true
		}
	}
	return false
}

// firstLabelSegment returns the text up to the first box glyph.
func firstLabelSegment(s string) string {
	for _, seg := range strings.FieldsFunc(s, func(r rune) bool { return connectorGlyphs[r] }) {
		if seg != "" {
			return seg
		}
	}
	return ""
}
