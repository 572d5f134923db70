package body

import "github.com/microcosm-cc/bluemonday"

// Sanitizer strips everything outside an explicit allow-list of tags,
// attributes and URL schemes from message HTML
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates the allow-list policy used for message bodies
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "code", "em", "i", "li", "ol", "strong", "ul",
		"p", "br", "hr", "div", "span", "pre", "u", "s", "sub", "sup", "small", "big", "center", "font",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption", "colgroup", "col",
		"img", "dl", "dt", "dd",
	)

	p.AllowAttrs("href", "title", "name").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("title").OnElements("abbr", "acronym")
	p.AllowAttrs("color", "face", "size").OnElements("font")
	p.AllowAttrs("colspan", "rowspan", "align", "valign", "width").OnElements("td", "th")
	p.AllowAttrs("border", "cellpadding", "cellspacing", "width", "align").OnElements("table")
	p.AllowAttrs("align").OnElements("p", "div", "tr", "h1", "h2", "h3", "h4", "h5", "h6")

	p.AllowURLSchemes("http", "https", "mailto", "cid")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(false)

	return &Sanitizer{policy: p}
}

// Sanitize returns html with disallowed markup removed. Script and style
// content is dropped along with the element.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
