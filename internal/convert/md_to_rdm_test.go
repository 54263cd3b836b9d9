package convert

import (
	"testing"

	"github.com/gerunddev/markbridge/internal/mdast"
	"github.com/gerunddev/markbridge/internal/paths"
	"github.com/gerunddev/markbridge/internal/rdm"
)

func boolPtr(b bool) *bool { return &b }

func TestToRDMAlwaysYieldsContent(t *testing.T) {
	tests := []struct {
		name string
		root *mdast.Node
	}{
		{name: "nil root", root: nil},
		{name: "empty root", root: &mdast.Node{Type: mdast.Root}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ToRDM(tt.root, "")
			if doc.Type != rdm.Doc || len(doc.Content) != 1 {
				t.Fatalf("expected doc with one child, got %+v", doc)
			}
			if !doc.Content[0].IsEmptyParagraph() {
				t.Errorf("expected empty paragraph filler, got %+v", doc.Content[0])
			}
		})
	}
}

func TestToRDMHeading(t *testing.T) {
	root := mdast.NewParent(mdast.Root,
		&mdast.Node{Type: mdast.Heading, Depth: 3, Children: []*mdast.Node{mdast.NewText("hi")}})

	doc := ToRDM(root, "")
	h := doc.Content[0]
	if h.Type != rdm.Heading || h.Level != 3 {
		t.Fatalf("unexpected heading: %+v", h)
	}
	if len(h.Content) != 1 || h.Content[0].Text != "hi" {
		t.Errorf("unexpected heading content: %+v", h.Content)
	}
}

func TestToRDMImageSplitsParagraph(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		mdast.NewText("before "),
		&mdast.Node{Type: mdast.Image, URL: "img.png", Alt: "pic"},
		mdast.NewText(" after"),
	))

	doc := ToRDM(root, "")
	if len(doc.Content) != 3 {
		t.Fatalf("expected paragraph/image/paragraph, got %d blocks", len(doc.Content))
	}
	if doc.Content[0].Type != rdm.Paragraph || doc.Content[0].Content[0].Text != "before" {
		t.Errorf("leading run not trimmed: %+v", doc.Content[0])
	}
	if doc.Content[1].Type != rdm.Image || doc.Content[1].Alt != "pic" {
		t.Errorf("unexpected image block: %+v", doc.Content[1])
	}
	if doc.Content[2].Type != rdm.Paragraph || doc.Content[2].Content[0].Text != "after" {
		t.Errorf("trailing run not trimmed: %+v", doc.Content[2])
	}
}

func TestToRDMImageSplitDropsEmptiedRun(t *testing.T) {
	// the separator space follows a marked span, so trimming empties the
	// final text node instead of the whole run
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		mdast.NewParent(mdast.Strong, mdast.NewText("b")),
		mdast.NewText(" "),
		&mdast.Node{Type: mdast.Image, URL: "a.png", Alt: "i"},
	))

	doc := ToRDM(root, "")
	if len(doc.Content) != 2 {
		t.Fatalf("expected paragraph and image, got %d blocks: %+v", len(doc.Content), doc.Content)
	}
	p := doc.Content[0]
	if len(p.Content) != 1 || p.Content[0].Text != "b" || !p.Content[0].HasMark(rdm.Bold) {
		t.Errorf("emptied text node should be dropped from the run: %+v", p.Content)
	}
}

func TestToRDMImageOnlyParagraph(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		&mdast.Node{Type: mdast.Image, URL: "img.png"},
	))

	doc := ToRDM(root, "")
	if len(doc.Content) != 1 || doc.Content[0].Type != rdm.Image {
		t.Errorf("image-only paragraph should collapse to an image block: %+v", doc.Content)
	}
}

func TestToRDMImageResolution(t *testing.T) {
	base := paths.InternalScheme + "/notes"
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		&mdast.Node{Type: mdast.Image, URL: "assets/img.png", Alt: "a"},
	))

	img := ToRDM(root, base).Content[0]
	if img.Src != base+"/assets/img.png" {
		t.Errorf("Src = %q", img.Src)
	}
	if img.OriginalSrc != "assets/img.png" {
		t.Errorf("OriginalSrc = %q, want the reference as written", img.OriginalSrc)
	}
}

func TestToRDMDiagramBlock(t *testing.T) {
	tests := []struct {
		name     string
		meta     string
		expected bool
	}{
		{name: "bare marker block", meta: "bare", expected: true},
		{name: "explicit fence", meta: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mdast.NewParent(mdast.Root,
				&mdast.Node{Type: mdast.Code, Lang: "plantuml", Meta: tt.meta, Value: "@startuml\n@enduml"})

			d := ToRDM(root, "").Content[0]
			if d.Type != rdm.DiagramBlock {
				t.Fatalf("expected diagram block, got %s", d.Type)
			}
			if d.Source != "@startuml\n@enduml" || d.Bare != tt.expected {
				t.Errorf("unexpected diagram: source=%q bare=%v", d.Source, d.Bare)
			}
			if d.ViewMode != rdm.ViewRendered {
				t.Errorf("new diagram blocks should open rendered, got %q", d.ViewMode)
			}
			if len(d.Content) != 0 {
				t.Errorf("diagram source must be an attribute, not content")
			}
		})
	}
}

func TestToRDMFrontmatter(t *testing.T) {
	root := mdast.NewParent(mdast.Root, &mdast.Node{Type: mdast.YAML, Value: "title: x"})

	cb := ToRDM(root, "").Content[0]
	if cb.Type != rdm.CodeBlock || cb.Language != rdm.FrontmatterLanguage {
		t.Fatalf("unexpected frontmatter block: %+v", cb)
	}
	if len(cb.Content) != 1 || cb.Content[0].Text != "title: x" {
		t.Errorf("unexpected frontmatter content: %+v", cb.Content)
	}
}

func TestToRDMTaskListClassification(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.List,
		&mdast.Node{Type: mdast.ListItem, Checked: boolPtr(true),
			Children: []*mdast.Node{mdast.NewParent(mdast.Paragraph, mdast.NewText("done"))}},
		&mdast.Node{Type: mdast.ListItem,
			Children: []*mdast.Node{mdast.NewParent(mdast.Paragraph, mdast.NewText("plain"))}},
	))

	list := ToRDM(root, "").Content[0]
	if list.Type != rdm.TaskList {
		t.Fatalf("one checkbox should make the whole list a task list, got %s", list.Type)
	}
	if list.Content[0].Type != rdm.TaskItem || !list.Content[0].Checked {
		t.Errorf("unexpected first item: %+v", list.Content[0])
	}
	if list.Content[1].Type != rdm.TaskItem || list.Content[1].Checked {
		t.Errorf("item without a checkbox should default to unchecked: %+v", list.Content[1])
	}
}

func TestToRDMOrderedListStart(t *testing.T) {
	root := mdast.NewParent(mdast.Root, &mdast.Node{Type: mdast.List, Ordered: true, Start: 5,
		Children: []*mdast.Node{
			mdast.NewParent(mdast.ListItem, mdast.NewParent(mdast.Paragraph, mdast.NewText("five"))),
		}})

	list := ToRDM(root, "").Content[0]
	if list.Type != rdm.OrderedList || list.Start != 5 {
		t.Errorf("unexpected ordered list: %+v", list)
	}
}

func TestToRDMListItemOpensWithParagraph(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.List,
		&mdast.Node{Type: mdast.ListItem, Children: []*mdast.Node{
			&mdast.Node{Type: mdast.Code, Lang: "go", Value: "x"},
		}},
		&mdast.Node{Type: mdast.ListItem},
	))

	list := ToRDM(root, "").Content[0]
	for i, item := range list.Content {
		if len(item.Content) == 0 || item.Content[0].Type != rdm.Paragraph {
			t.Errorf("item %d does not open with a paragraph: %+v", i, item.Content)
		}
	}
	if list.Content[0].Content[1].Type != rdm.CodeBlock {
		t.Errorf("original first block should follow the synthesized paragraph")
	}
}

func TestToRDMImageLeadingListItem(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.List,
		&mdast.Node{Type: mdast.ListItem, Children: []*mdast.Node{
			mdast.NewParent(mdast.Paragraph, &mdast.Node{Type: mdast.Image, URL: "i.png"}),
		}},
	))

	item := ToRDM(root, "").Content[0].Content[0]
	if len(item.Content) != 2 ||
		!item.Content[0].IsEmptyParagraph() ||
		item.Content[1].Type != rdm.Image {
		t.Errorf("image-leading item should gain an empty leading paragraph: %+v", item.Content)
	}
}

func TestToRDMMarkOrderCanonical(t *testing.T) {
	// strong(em(text)) and em(strong(text)) carry the same mark list
	a := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		mdast.NewParent(mdast.Strong, mdast.NewParent(mdast.Emphasis, mdast.NewText("x")))))
	b := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		mdast.NewParent(mdast.Emphasis, mdast.NewParent(mdast.Strong, mdast.NewText("x")))))

	ta := ToRDM(a, "").Content[0].Content[0]
	tb := ToRDM(b, "").Content[0].Content[0]
	if !rdm.MarksEqual(ta.Marks, tb.Marks) {
		t.Errorf("mark order depends on nesting: %v vs %v", ta.Marks, tb.Marks)
	}
	if len(ta.Marks) != 2 || ta.Marks[0].Kind != rdm.Bold || ta.Marks[1].Kind != rdm.Italic {
		t.Errorf("unexpected canonical order: %v", ta.Marks)
	}
}

func TestToRDMLinkMark(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		&mdast.Node{Type: mdast.Link, URL: "https://example.com", Title: "t",
			Children: []*mdast.Node{mdast.NewText("label")}}))

	txt := ToRDM(root, "").Content[0].Content[0]
	if len(txt.Marks) != 1 {
		t.Fatalf("expected one mark, got %v", txt.Marks)
	}
	m := txt.Marks[0]
	if m.Kind != rdm.Link || m.Href != "https://example.com" || m.Title != "t" {
		t.Errorf("unexpected link mark: %+v", m)
	}
}

func TestToRDMHardBreak(t *testing.T) {
	root := mdast.NewParent(mdast.Root, mdast.NewParent(mdast.Paragraph,
		mdast.NewText("a"), &mdast.Node{Type: mdast.Break}, mdast.NewText("b")))

	p := ToRDM(root, "").Content[0]
	if len(p.Content) != 3 || p.Content[1].Type != rdm.HardBreak {
		t.Errorf("unexpected hard break conversion: %+v", p.Content)
	}
}

func TestToRDMInlineImageFallsBackToAlt(t *testing.T) {
	root := mdast.NewParent(mdast.Root,
		&mdast.Node{Type: mdast.Heading, Depth: 1, Children: []*mdast.Node{
			&mdast.Node{Type: mdast.Image, URL: "i.png", Alt: "logo"},
		}})

	h := ToRDM(root, "").Content[0]
	if len(h.Content) != 1 || h.Content[0].Type != rdm.Text || h.Content[0].Text != "logo" {
		t.Errorf("inline image in heading should degrade to alt text: %+v", h.Content)
	}
}

func TestToRDMTable(t *testing.T) {
	root := mdast.NewParent(mdast.Root, &mdast.Node{
		Type:  mdast.Table,
		Align: []string{"center", ""},
		Children: []*mdast.Node{
			mdast.NewParent(mdast.TableRow,
				mdast.NewParent(mdast.TableHeader, mdast.NewText("h1")),
				mdast.NewParent(mdast.TableHeader, mdast.NewText("h2"))),
			mdast.NewParent(mdast.TableRow,
				mdast.NewParent(mdast.TableCell, mdast.NewText("c1")),
				mdast.NewParent(mdast.TableCell, mdast.NewText("c2"))),
		},
	})

	tbl := ToRDM(root, "").Content[0]
	if tbl.Type != rdm.Table || len(tbl.Align) != 2 || tbl.Align[0] != "center" {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	header := tbl.Content[0].Content[0]
	if header.Type != rdm.TableHeader {
		t.Errorf("expected header cell, got %s", header.Type)
	}
	if len(header.Content) != 1 || header.Content[0].Type != rdm.Paragraph {
		t.Errorf("cell inlines should be wrapped in a paragraph: %+v", header.Content)
	}
	body := tbl.Content[1].Content[1]
	if body.Type != rdm.TableCell || body.Content[0].Content[0].Text != "c2" {
		t.Errorf("unexpected body cell: %+v", body)
	}
}
