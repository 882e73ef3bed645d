package blocks

import (
	"testing"

	"github.com/float-ritual-stack/float-liner/internal/markdown"
)

func TestInsertParsedFlat(t *testing.T) {
	d := NewSeeded(testNow)

	parsed := markdown.Build("one\ntwo", "p", "output")
	var created []string
	err := d.Update(func(tx *Tx) error {
		var err error
		created, err = InsertParsed(tx, parsed, RootID, testNow+1)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(created) != 2 || created[0] != "p-0" || created[1] != "p-1" {
		t.Fatalf("created ids = %v", created)
	}

	snap, _ := d.Snapshot()
	blockMap := snap["blocks"].(map[string]Block)
	first := blockMap["p-0"]
	if first.Content != "one" || first.Type != "output" {
		t.Fatalf("inserted block = %#v", first)
	}
	if first.ParentID == nil || *first.ParentID != RootID {
		t.Fatalf("inserted parent = %v", first.ParentID)
	}
	if first.CreatedAt != testNow+1 || first.UpdatedAt != testNow+1 {
		t.Fatalf("inserted timestamps = %d/%d", first.CreatedAt, first.UpdatedAt)
	}
	if first.Collapsed {
		t.Fatalf("inserted block collapsed")
	}
}

func TestInsertParsedNested(t *testing.T) {
	d := NewSeeded(testNow)

	parsed := markdown.Build("# A\ntext1\n## B\ntext2", "n", "text")
	var created []string
	err := d.Update(func(tx *Tx) error {
		var err error
		created, err = InsertParsed(tx, parsed, RootID, testNow)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("top-level ids = %v", created)
	}

	snap, _ := d.Snapshot()
	blockMap := snap["blocks"].(map[string]Block)

	root := blockMap[created[0]]
	if root.Content != "# A" {
		t.Fatalf("heading content = %q", root.Content)
	}
	if len(root.ChildIDs) != 2 {
		t.Fatalf("heading children = %v", root.ChildIDs)
	}

	// Children must be committed and reference back to their parent.
	for _, id := range root.ChildIDs {
		child, ok := blockMap[id]
		if !ok {
			t.Fatalf("child %q missing from block map", id)
		}
		if child.ParentID == nil || *child.ParentID != root.ID {
			t.Fatalf("child %q parent = %v", id, child.ParentID)
		}
	}

	nested := blockMap[root.ChildIDs[1]]
	if nested.Content != "## B" || len(nested.ChildIDs) != 1 {
		t.Fatalf("nested heading = %#v", nested)
	}
	if blockMap[nested.ChildIDs[0]].Content != "text2" {
		t.Fatalf("nested child content = %q", blockMap[nested.ChildIDs[0]].Content)
	}
}

func TestInsertParsedSanitizesContent(t *testing.T) {
	d := NewSeeded(testNow)

	parsed := markdown.Build("✅ done\n🚀 shipped", "s", "output")
	err := d.Update(func(tx *Tx) error {
		_, err := InsertParsed(tx, parsed, RootID, testNow)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap, _ := d.Snapshot()
	blockMap := snap["blocks"].(map[string]Block)
	if got := blockMap["s-0"].Content; got != "◆ done" {
		t.Fatalf("sanitized content = %q", got)
	}
	if got := blockMap["s-1"].Content; got != "→ shipped" {
		t.Fatalf("sanitized content = %q", got)
	}
}

func TestInsertParsedEmptyList(t *testing.T) {
	d := NewSeeded(testNow)
	err := d.Update(func(tx *Tx) error {
		ids, err := InsertParsed(tx, nil, RootID, testNow)
		if err != nil {
			return err
		}
		if len(ids) != 0 {
			t.Fatalf("ids from empty list = %v", ids)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}
