package visualization

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"text/template"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
)

// ErrEmptyGraph is returned when there is nothing to draw.
var ErrEmptyGraph = errors.New("graph has no nodes")

const defaultTitle = "Knowledge Graph Visualization"

var typeColors = map[common.EntityType]string{
	common.EntityTypePerson:       "#f4a261",
	common.EntityTypeOrganization: "#8ecae6",
	common.EntityTypeLocation:     "#90be6d",
	common.EntityTypeDate:         "#cdb4db",
	common.EntityTypeTechnology:   "#ffd166",
}

const untypedColor = "#add8e6"

// NodeColor returns the fill colour used for entities of type t.
func NodeColor(t common.EntityType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return untypedColor
}

type svgNode struct {
	Label string
	Type  string
	Color string
	X, Y  float64
}

type svgEdge struct {
	Label          string
	X1, Y1, X2, Y2 float64
	LX, LY         float64
}

type svgDocument struct {
	Title         string
	Width, Height float64
	Nodes         []svgNode
	Edges         []svgEdge
	Legend        []svgNode
}

var svgTemplate = template.Must(template.New("graph").Funcs(template.FuncMap{
	"xml": xmlEscape,
	"f":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{f .Width}}" height="{{f .Height}}" viewBox="0 0 {{f .Width}} {{f .Height}}" font-family="sans-serif">
<rect width="100%" height="100%" fill="#ffffff"/>
<text x="20" y="32" font-size="20">{{xml .Title}}</text>
<g stroke="#888888" stroke-width="1.5">
{{- range .Edges}}
<line x1="{{f .X1}}" y1="{{f .Y1}}" x2="{{f .X2}}" y2="{{f .Y2}}"/>
{{- end}}
</g>
<g font-size="10" fill="#555555" text-anchor="middle">
{{- range .Edges}}
<text x="{{f .LX}}" y="{{f .LY}}">{{xml .Label}}</text>
{{- end}}
</g>
<g stroke="#333333" stroke-width="1">
{{- range .Nodes}}
<circle cx="{{f .X}}" cy="{{f .Y}}" r="18" fill="{{.Color}}"><title>{{xml .Label}}{{if .Type}} ({{.Type}}){{end}}</title></circle>
{{- end}}
</g>
<g font-size="12" text-anchor="middle">
{{- range .Nodes}}
<text x="{{f .X}}" y="{{f .Y}}" dy="4">{{xml .Label}}</text>
{{- end}}
</g>
<g font-size="11">
{{- range $i, $l := .Legend}}
<circle cx="30" cy="{{f $l.Y}}" r="6" fill="{{$l.Color}}" stroke="#333333"/>
<text x="42" y="{{f $l.Y}}" dy="4">{{$l.Label}}</text>
{{- end}}
</g>
</svg>
`))

// RenderSVG lays out g and writes it as an SVG document: labeled nodes
// coloured by entity type and edges labeled with their predicate.
func RenderSVG(w io.Writer, g graph.Snapshot, cfg LayoutConfig) error {
	if len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}

	layout := NewForceDirectedLayout(cfg)
	positions := layout.ComputeLayout(g)

	doc := svgDocument{
		Title:  defaultTitle,
		Width:  layout.config.Width,
		Height: layout.config.Height,
	}

	for _, n := range g.Nodes {
		p := positions[n.Name]
		doc.Nodes = append(doc.Nodes, svgNode{
			Label: n.Name,
			Type:  string(n.Type),
			Color: NodeColor(n.Type),
			X:     p.X,
			Y:     p.Y,
		})
	}

	for _, e := range g.Edges {
		a, okA := positions[e.A]
		b, okB := positions[e.B]
		if !okA || !okB {
			continue
		}
		doc.Edges = append(doc.Edges, svgEdge{
			Label: e.Predicate,
			X1:    a.X, Y1: a.Y,
			X2: b.X, Y2: b.Y,
			LX: (a.X + b.X) / 2,
			LY: (a.Y+b.Y)/2 - 4,
		})
	}

	y := 60.0
	for _, t := range common.EntityTypes {
		doc.Legend = append(doc.Legend, svgNode{Label: string(t), Color: NodeColor(t), Y: y})
		y += 18
	}

	return svgTemplate.Execute(w, doc)
}

func xmlEscape(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
