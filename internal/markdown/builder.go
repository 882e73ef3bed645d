// Package markdown converts free-form text (markdown, captured command
// output) into trees of block descriptors following heading hierarchy, and
// sanitizes produced content. Build is pure and total: any input string
// yields a deterministic tree.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type eventKind int

const (
	eventHeading eventKind = iota
	eventText
	eventCode
)

// event is one element of the flat stream scanned out of the source before
// the tree fold. Depth is only meaningful for headings.
type event struct {
	kind  eventKind
	depth int
	text  string
}

// Build parses content into a tree of block descriptors. When the content
// contains no headings the result is one flat block per non-blank line with
// ids {baseID}-{lineIndex}. Otherwise headings nest strictly: a heading
// becomes the parent of everything that follows until a heading of equal or
// shallower depth, and ids use a monotonic counter {baseID}-{n}.
func Build(content, baseID, blockType string) []ParsedBlock {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	if !hasHeadings(doc) {
		return buildFlat(content, baseID, blockType)
	}

	events := collectEvents(doc, source)
	return foldTree(events, baseID, blockType)
}

func buildFlat(content, baseID, blockType string) []ParsedBlock {
	var out []ParsedBlock
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, ParsedBlock{
			ID:      fmt.Sprintf("%s-%d", baseID, i),
			Content: line,
			Type:    blockType,
		})
	}
	return out
}

func hasHeadings(doc ast.Node) bool {
	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// collectEvents linearizes the parsed document into heading/text/code events
// in source order. Inline markup contributes its text content only; list
// markers never survive.
func collectEvents(doc ast.Node, source []byte) []event {
	var events []event
	walkBlocks(doc, source, &events)
	return events
}

func walkBlocks(n ast.Node, source []byte, events *[]event) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			if txt := strings.TrimSpace(inlineText(node, source)); txt != "" {
				*events = append(*events, event{kind: eventHeading, depth: node.Level, text: txt})
			}
		case *ast.Paragraph, *ast.TextBlock:
			emitInlineLines(c, source, events)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if txt := strings.TrimSpace(rawLines(c, source)); txt != "" {
				*events = append(*events, event{kind: eventCode, text: txt})
			}
		default:
			if c.HasChildren() {
				walkBlocks(c, source, events)
			}
		}
	}
}

// emitInlineLines flushes one text event per line of a paragraph-like node,
// splitting at soft and hard breaks the way the streaming scan demands.
func emitInlineLines(n ast.Node, source []byte, events *[]event) {
	var buf strings.Builder

	flush := func() {
		if txt := strings.TrimSpace(buf.String()); txt != "" {
			*events = append(*events, event{kind: eventText, text: txt})
		}
		buf.Reset()
	}

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					flush()
				}
			case *ast.String:
				buf.Write(node.Value)
			case *ast.AutoLink:
				buf.Write(node.Label(source))
			default:
				if c.HasChildren() {
					walk(c)
				}
			}
		}
	}

	walk(n)
	flush()
}

// inlineText collects the full text content of an inline container without
// break splitting (headings occupy a single line).
func inlineText(n ast.Node, source []byte) string {
	var buf strings.Builder
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(source))
			case *ast.String:
				buf.Write(node.Value)
			case *ast.AutoLink:
				buf.Write(node.Label(source))
			default:
				if c.HasChildren() {
					walk(c)
				}
			}
		}
	}
	walk(n)
	return buf.String()
}

func rawLines(n ast.Node, source []byte) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// foldTree folds the flat event stream into a tree using an explicit stack
// of arena indices seeded with a virtual root at depth 0. Headings pop the
// stack while the top is at equal or deeper depth, then push themselves as
// the parent for subsequent content.
func foldTree(events []event, baseID, blockType string) []ParsedBlock {
	type arenaNode struct {
		block    ParsedBlock
		children []int
	}
	type frame struct {
		depth int
		idx   int // -1 marks the virtual root
	}

	var arena []arenaNode
	var rootIdx []int
	stack := []frame{{depth: 0, idx: -1}}
	counter := 0

	attach := func(idx int) {
		top := stack[len(stack)-1]
		if top.idx < 0 {
			rootIdx = append(rootIdx, idx)
			return
		}
		arena[top.idx].children = append(arena[top.idx].children, idx)
	}

	emit := func(content string) int {
		idx := len(arena)
		arena = append(arena, arenaNode{block: ParsedBlock{
			ID:      fmt.Sprintf("%s-%d", baseID, counter),
			Content: content,
			Type:    blockType,
		}})
		counter++
		attach(idx)
		return idx
	}

	for _, ev := range events {
		switch ev.kind {
		case eventHeading:
			for len(stack) > 1 && stack[len(stack)-1].depth >= ev.depth {
				stack = stack[:len(stack)-1]
			}
			idx := emit(strings.Repeat("#", ev.depth) + " " + ev.text)
			stack = append(stack, frame{depth: ev.depth, idx: idx})
		case eventText:
			emit(ev.text)
		case eventCode:
			emit("```\n" + ev.text + "\n```")
		}
	}

	var materialize func(indices []int) []ParsedBlock
	materialize = func(indices []int) []ParsedBlock {
		if len(indices) == 0 {
			return nil
		}
		out := make([]ParsedBlock, 0, len(indices))
		for _, idx := range indices {
			node := arena[idx]
			node.block.Children = materialize(node.children)
			out = append(out, node.block)
		}
		return out
	}
	return materialize(rootIdx)
}
