package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed together with their children.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Iframe:   true,
	atom.Frame:    true,
	atom.Frameset: true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Base:     true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Form:     true,
	atom.Noscript: true,
	atom.Style:    true,
}

// urlAttributes hold references the browser would follow while printing.
var urlAttributes = map[string]bool{
	"src":        true,
	"href":       true,
	"srcset":     true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"background": true,
	"xlink:href": true,
}

// SanitizeFragment cleans an editor HTML body before it is printed:
// script-capable, embedding and style elements are removed, event handler
// attributes are stripped, and URL attributes keep only http(s), mailto,
// tel, in-page anchors and data:image values. Text and formatting markup
// are preserved.
func SanitizeFragment(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return "", err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	sanitizeNode(container)

	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func sanitizeNode(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.ElementNode && droppedElements[c.DataAtom]:
			n.RemoveChild(c)
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		default:
			if c.Type == html.ElementNode {
				c.Attr = cleanAttributes(c.Attr)
			}
			sanitizeNode(c)
		}
		c = next
	}
}

func cleanAttributes(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" {
			key = strings.ToLower(a.Namespace + ":" + a.Key)
		}
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttributes[key] && !isAllowedURL(a.Val) {
			continue
		}
		if key == "style" && strings.Contains(strings.ToLower(a.Val), "url(") {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// isAllowedURL reports whether the browser may follow the reference.
// Relative references are refused because pages load from a temp file:// path.
func isAllowedURL(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return true
	case strings.HasPrefix(v, "#"):
		return true
	case strings.HasPrefix(v, "https://"), strings.HasPrefix(v, "http://"):
		return true
	case strings.HasPrefix(v, "mailto:"), strings.HasPrefix(v, "tel:"):
		return true
	case strings.HasPrefix(v, "data:image/") && !strings.HasPrefix(v, "data:image/svg"):
		return true
	}
	return false
}
