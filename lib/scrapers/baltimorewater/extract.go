package baltimorewater

import (
	"strings"
	"waterbills/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// the portal's results markup is loosely structured, so extraction is a
// chain of strategies tried in order until one produces a value
type strategy func(doc *goquery.Document, label string) string

// Extract finds the value rendered next to a field label, or returns
// NotAvailable. A missing or empty field never fails the whole record.
func Extract(doc *goquery.Document, label string, scanCells bool) string {
	strategies := []strategy{scanRows, scanFreeText}
	if scanCells {
		strategies = append(strategies, scanCellElements)
	}
	for _, s := range strategies {
		if value := s(doc, label); value != "" {
			return value
		}
	}
	return NotAvailable
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// scanRows handles the usual "div.row > p > b" layout: the bold tag
// holds the label, the rest of the paragraph holds the value. The value
// boundary is the rendered bold text's length, so a bold label that
// differs in whitespace from the paragraph's trimmed text shifts the
// cut point.
func scanRows(doc *goquery.Document, label string) string {
	value := ""
	doc.Find(`div.row, div[class="rowcontenteditable="]`).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		p := row.Find("p").First()
		if p.Length() == 0 {
			return true
		}
		b := p.Find("b").First()
		if b.Length() == 0 {
			return true
		}
		bold := b.Text()
		if !containsFold(bold, label) {
			return true
		}

		full := strings.TrimSpace(p.Text())
		if len(bold) >= len(full) {
			return true
		}
		value = strings.TrimSpace(full[len(bold):])
		return value == ""
	})
	return value
}

// scanFreeText falls back to raw text matching: find the first text
// node containing the label, then read the text of its parent's next
// sibling element, or failing that the next element in document order.
func scanFreeText(doc *goquery.Document, label string) string {
	if len(doc.Selection.Nodes) == 0 {
		return ""
	}
	for _, node := range htmlutil.TextNodes(doc.Selection.Nodes[0]) {
		if !containsFold(node.Data, label) {
			continue
		}
		parent := node.Parent
		if parent == nil {
			continue
		}
		return valueAfter(parent)
	}
	return ""
}

// scanCellElements repeats the free-text approach restricted to table
// cells and generic blocks, matching only their direct text.
func scanCellElements(doc *goquery.Document, label string) string {
	for _, node := range doc.Find("td, div").Nodes {
		if !containsFold(ownText(node), label) {
			continue
		}
		if value := valueAfter(node); value != "" {
			return value
		}
	}
	return ""
}

func valueAfter(node *html.Node) string {
	if sibling := htmlutil.NextSiblingElement(node); sibling != nil {
		if text := htmlutil.CleanText(htmlutil.GetText(sibling)); text != "" {
			return text
		}
	}
	if next := htmlutil.NextElement(node); next != nil {
		return htmlutil.CleanText(htmlutil.GetText(next))
	}
	return ""
}

func ownText(node *html.Node) string {
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}
