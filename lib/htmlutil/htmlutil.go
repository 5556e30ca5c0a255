package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	xhtml "golang.org/x/net/html"
)

var tracer = otel.Tracer("cheappizza.lib.htmlutil")

func GetText(node *xhtml.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *xhtml.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == xhtml.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

var (
	innerWhitespace = regexp.MustCompile(`[ \t]+`)
	anyWhitespace   = regexp.MustCompile(`\s+`)
)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// GetAnchors reads the links under sel, pairing each href with the text
// of the anchor it came from. Anchors whose href does not parse are
// skipped.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := removeNonPrintable(GetText(n))
		name = strings.TrimSpace(anyWhitespace.ReplaceAllString(name, " "))

		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// lineBreakTags close a line when markup gets flattened. <br> breaks
// where it stands.
var lineBreakTags = map[string]bool{
	"li":  true,
	"p":   true,
	"div": true,
}

// FlattenMarkup reduces the markup under sel to plain text while
// keeping the line structure the tags implied: <br> and the closers of
// list items and block elements turn into newlines, every other
// element contributes only its text.
func FlattenMarkup(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, node := range sel.Nodes {
		flattenRecursive(node, &buffer)
	}

	s := removeNonPrintable(buffer.String())
	s = innerWhitespace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Trim(line, " \t")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func flattenRecursive(node *xhtml.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == xhtml.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == xhtml.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}
	child := node.FirstChild
	for child != nil {
		flattenRecursive(child, buffer)
		child = child.NextSibling
	}
	if node.Type == xhtml.ElementNode && lineBreakTags[node.Data] {
		buffer.WriteString("\n")
	}
}

// Lines is FlattenMarkup split into its non-empty lines, the shape item
// lists and menu descriptions are consumed in.
func Lines(sel *goquery.Selection) []string {
	flat := FlattenMarkup(sel)
	if flat == "" {
		return nil
	}
	return strings.Split(flat, "\n")
}
