package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter carries the metadata recognised on imported markdown files.
// Unknown keys are ignored; files without a frontmatter section yield the
// zero value and the untouched body.
type FrontMatter struct {
	Title     string   `yaml:"title" toml:"title"`
	Tags      []string `yaml:"tags" toml:"tags"`
	Collapsed bool     `yaml:"collapsed" toml:"collapsed"`
}

// ParseFrontMatter extracts metadata and the markdown body from source
// bytes. The returned body has the frontmatter delimiters stripped.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("markdown: parse frontmatter: %w", err)
	}
	return meta, body, nil
}
