package body

import (
	"strings"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const cidScheme = "cid:"

// URLBuilder maps a part id to a URL the client can fetch it from
type URLBuilder func(partID uint) string

// NormalizeCID strips angle brackets and lower-cases a content-id
func NormalizeCID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return strings.ToLower(strings.TrimSpace(id))
}

// cidMap indexes every part that carries a content-id
func cidMap(parts []models.MessagePart) map[string]uint {
	m := make(map[string]uint)
	for _, p := range parts {
		if p.ContentID == nil {
			continue
		}
		if key := NormalizeCID(*p.ContentID); key != "" {
			if _, dup := m[key]; !dup {
				m[key] = p.ID
			}
		}
	}
	return m
}

// rewriteCIDs points every <img src="cid:..."> that resolves through cids at
// build(partID). It returns the rewritten HTML and the ids it referenced.
// Unresolved references are left as they are; HTML that fails to parse is
// returned unchanged.
func rewriteCIDs(src string, cids map[string]uint, build URLBuilder) (string, map[uint]bool) {
	referenced := make(map[uint]bool)
	if len(cids) == 0 || !strings.Contains(strings.ToLower(src), cidScheme) {
		return src, referenced
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return src, referenced
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for i, a := range n.Attr {
				if a.Namespace != "" || a.Key != "src" {
					continue
				}
				v := strings.TrimSpace(a.Val)
				if len(v) < len(cidScheme) || !strings.EqualFold(v[:len(cidScheme)], cidScheme) {
					continue
				}
				if id, ok := cids[NormalizeCID(v[len(cidScheme):])]; ok {
					n.Attr[i].Val = build(id)
					referenced[id] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	var sb strings.Builder
	for _, n := range nodes {
		walk(n)
		if err := html.Render(&sb, n); err != nil {
			return src, map[uint]bool{}
		}
	}
	return sb.String(), referenced
}
