package export

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/CryoKynase/wheel-lacing-app/internal/layout"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

const (
	svgExtent = layout.RimRadius + 40

	rightColor = "#e8590c"
	leftColor  = "#1c7ed6"
	rimColor   = "#495057"
	hubColor   = "#868e96"
)

func sideColor(side models.Side) string {
	if side == models.SideLeft {
		return leftColor
	}
	return rightColor
}

// WriteSVG renders a layout as a standalone SVG document centered on the hub.
// Dimmed segments are drawn first so emphasized spokes stay on top.
func WriteSVG(w io.Writer, res layout.Result, title string) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}

	p(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g" width="640" height="640">`+"\n",
		-float64(svgExtent), -float64(svgExtent), float64(2*svgExtent), float64(2*svgExtent))
	if title != "" {
		p("  <title>%s</title>\n", html.EscapeString(title))
	}
	p(`  <rect x="%g" y="%g" width="%g" height="%g" fill="#ffffff"/>`+"\n",
		-float64(svgExtent), -float64(svgExtent), float64(2*svgExtent), float64(2*svgExtent))

	if res.HoleCount <= 0 || res.HoleCount%2 != 0 {
		p("</svg>\n")
		return bw.Flush()
	}

	p(`  <circle cx="0" cy="0" r="%g" fill="none" stroke="%s" stroke-width="2"/>`+"\n", res.Rim.Radius, rimColor)
	for _, side := range []models.Side{models.SideRight, models.SideLeft} {
		c, ok := res.Flanges[side]
		if !ok {
			continue
		}
		p(`  <circle class="flange flange-%s" cx="%.2f" cy="%.2f" r="%g" fill="none" stroke="%s" stroke-dasharray="3 3"/>`+"\n",
			side, c.Center.X, c.Center.Y, c.Radius, sideColor(side))
	}

	p("  <g class=\"spokes\">\n")
	for _, pass := range []bool{false, true} {
		for _, s := range res.Segments {
			if s.Emphasized != pass {
				continue
			}
			opacity := "0.15"
			if s.Emphasized {
				opacity = "1"
			}
			p(`    <line data-order="%d" data-group="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5" stroke-opacity="%s"/>`+"\n",
				s.Order, s.Group, s.Hub.X, s.Hub.Y, s.Rim.X, s.Rim.Y, sideColor(s.Side), opacity)
		}
	}
	p("  </g>\n")

	p("  <g class=\"rim-holes\" font-size=\"8\" text-anchor=\"middle\" dominant-baseline=\"middle\">\n")
	for _, t := range res.RimTicks {
		p(`    <circle cx="%.2f" cy="%.2f" r="2" fill="%s"/>`+"\n", t.Point.X, t.Point.Y, rimColor)
		if t.Labeled {
			p(`    <text x="%.2f" y="%.2f" fill="%s">%d</text>`+"\n", t.Label.X, t.Label.Y, rimColor, t.Hole)
		}
	}
	p("  </g>\n")

	p("  <g class=\"hub-holes\" font-size=\"7\" text-anchor=\"middle\" dominant-baseline=\"middle\">\n")
	for _, t := range res.HubTicks {
		p(`    <circle cx="%.2f" cy="%.2f" r="1.5" fill="%s"/>`+"\n", t.Point.X, t.Point.Y, sideColor(t.Side))
		if t.Labeled {
			p(`    <text x="%.2f" y="%.2f" fill="%s">%d</text>`+"\n", t.Label.X, t.Label.Y, hubColor, t.Hole)
		}
	}
	p("  </g>\n")

	p("  <g class=\"anchors\" font-size=\"8\" font-weight=\"bold\" text-anchor=\"middle\" dominant-baseline=\"middle\">\n")
	for _, a := range res.AnchorLabels {
		p(`    <text x="%.2f" y="%.2f" fill="#212529">%d</text>`+"\n", a.Label.X, a.Label.Y, a.Hole)
	}
	p("  </g>\n")

	v := res.Valve
	p(`  <polygon class="valve" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="#212529"/>`+"\n",
		v.Apex.X, v.Apex.Y, v.Base[0].X, v.Base[0].Y, v.Base[1].X, v.Base[1].Y)
	p(`  <text x="%.2f" y="%.2f" font-size="8" text-anchor="middle">Valve</text>`+"\n", v.Label.X, v.Label.Y)

	p("</svg>\n")
	return bw.Flush()
}
