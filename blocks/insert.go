package blocks

import (
	"github.com/float-ritual-stack/float-liner/internal/markdown"
)

// InsertParsed materializes a parsed descriptor tree into the document,
// depth first: a block's children are staged before the block that
// references them, so childIds never point at ids the commit has not
// produced. Content is sanitized on the way in. Returns the ids created at
// this level, in original order.
func InsertParsed(tx *Tx, parsed []markdown.ParsedBlock, parentID string, now int64) ([]string, error) {
	ids := make([]string, 0, len(parsed))
	for _, p := range parsed {
		childIDs, err := InsertParsed(tx, p.Children, p.ID, now)
		if err != nil {
			return nil, err
		}

		if err := tx.PutBlock(Block{
			ID:        p.ID,
			ParentID:  ptr(parentID),
			ChildIDs:  childIDs,
			Content:   markdown.Detackify(p.Content),
			Type:      p.Type,
			Collapsed: false,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}
