package render

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Renderer turns recap markdown into HTML that is safe to embed in the page.
type Renderer struct {
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{policy: p}
}

func (r *Renderer) Markdown(text string) template.HTML {
	unsafe := blackfriday.Run([]byte(text))
	return template.HTML(r.policy.SanitizeBytes(unsafe))
}
