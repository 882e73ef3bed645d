package markdown

// ParsedBlock is an intermediate tree node produced by Build, independent of
// any document. IDs are scoped by the caller-supplied base id; materializing
// the tree into a document is the caller's concern.
type ParsedBlock struct {
	ID       string
	Content  string
	Type     string
	Children []ParsedBlock
}
