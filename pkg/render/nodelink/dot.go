package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineup/pkg/conflict"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// Edge colours by the number of acts between two conflicting acts.
const (
	colorBackToBack  = "#d62728" // gap 0
	colorQuickChange = "#ff7f0e" // gap 1
	colorRested      = "#9e9e9e"
	colorLockedFill  = "#fff3c4"
)

// Options configures conflict diagram rendering.
type Options struct {
	// Detailed adds each act's performers to its label.
	Detailed bool

	// Result, when set, labels acts with their show position and colours
	// edges by the rest the order leaves between them.
	Result *schedule.Result
}

// ToDOT converts the conflict graph of r to Graphviz DOT. Each act is a
// node and each pair of acts sharing a performer is an undirected edge
// labelled with the shared performers.
//
// The full graph is drawn; g is not modified.
func ToDOT(r *roster.Roster, g *conflict.Graph, opts Options) string {
	positions := map[string]int{}
	locked := map[string]bool{}
	if opts.Result != nil {
		for _, p := range opts.Result.Placements {
			positions[p.Act] = p.Position
			locked[p.Act] = p.Locked
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, a := range r.Acts {
		label := a.Name
		if pos, ok := positions[a.Name]; ok {
			label = fmt.Sprintf("%d. %s", pos+1, a.Name)
		}
		if opts.Detailed {
			label += "\n" + strings.Join(a.Performers, "\n")
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if locked[a.Name] {
			attrs = append(attrs, "style=\"rounded,filled,bold\"", fmt.Sprintf("fillcolor=%q", colorLockedFill))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", a.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		u, v := r.Acts[e.U], r.Acts[e.V]
		attrs := []string{fmt.Sprintf("label=%q", strings.Join(shared(u, v), ", "))}
		if pu, ok := positions[u.Name]; ok {
			if pv, ok := positions[v.Name]; ok {
				attrs = append(attrs, edgeStyle(gap(pu, pv))...)
			}
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", u.Name, v.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func gap(a, b int) int {
	if a > b {
		a, b = b, a
	}
	return b - a - 1
}

func edgeStyle(gap int) []string {
	switch gap {
	case 0:
		return []string{fmt.Sprintf("color=%q", colorBackToBack), "penwidth=3"}
	case 1:
		return []string{fmt.Sprintf("color=%q", colorQuickChange), "penwidth=2"}
	}
	return []string{fmt.Sprintf("color=%q", colorRested), "style=dashed"}
}

func shared(a, b *roster.Act) []string {
	var out []string
	for _, p := range a.Performers {
		if b.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
