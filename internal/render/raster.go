package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	arcSegments     = 8
	ellipseSegments = 48
)

type point struct{ x, y float64 }

// Rasterize paints a frame to pixels: background, grid, then every node in
// paint order. It is the offscreen counterpart of CompileDrawCommands.
func Rasterize(f Frame) *image.RGBA {
	w, h := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))
	img := image.NewRGBA(image.Rect(0, 0, max(0, w), max(0, h)))
	b := img.Bounds()

	draw.Draw(img, b, image.NewUniform(ParseColor(BackgroundColor)), image.Point{}, draw.Src)

	grid := image.NewUniform(ParseColor(GridColor))
	for x := 0; x < b.Dx(); x += GridSpacing {
		draw.Draw(img, image.Rect(x, 0, x+1, b.Dy()), grid, image.Point{}, draw.Over)
	}
	for y := 0; y < b.Dy(); y += GridSpacing {
		draw.Draw(img, image.Rect(0, y, b.Dx(), y+1), grid, image.Point{}, draw.Over)
	}

	for _, n := range f.Nodes {
		drawNode(img, n)
	}
	return img
}

// drawNode paints the node's primitives into an upright sprite and
// composites it through the node's world transform.
func drawNode(dst *image.RGBA, n Node) {
	prims := Primitives(n)
	ext := extent(prims)
	if ext.IsEmpty() {
		return
	}

	offX, offY := 1-math.Floor(ext.X), 1-math.Floor(ext.Y)
	sw := int(math.Ceil(ext.X+ext.Width+offX)) + 1
	sh := int(math.Ceil(ext.Y+ext.Height+offY)) + 1
	sprite := image.NewRGBA(image.Rect(0, 0, sw, sh))

	for _, p := range prims {
		paint(sprite, p, offX, offY)
	}

	s2d := n.World.Multiply(Translate(-offX, -offY)).Aff3()
	draw.BiLinear.Transform(dst, s2d, sprite, sprite.Bounds(), draw.Over, nil)
}

func paint(dst *image.RGBA, p Primitive, dx, dy float64) {
	switch p.Kind {
	case PrimText:
		paintText(dst, p, dx, dy)
		return
	case PrimTriangle:
		if len(p.Points) < 6 || p.Fill == "" {
			return
		}
		tri := make([]point, 0, 3)
		for i := 0; i+1 < len(p.Points) && len(tri) < 3; i += 2 {
			tri = append(tri, point{p.Points[i] + dx, p.Points[i+1] + dy})
		}
		fillPolygons(dst, p.Fill, tri)
		return
	}

	x, y := p.X+dx, p.Y+dy
	outline := func(x, y, w, h, r float64) []point {
		if p.Kind == PrimEllipse {
			return ellipse(x, y, w, h)
		}
		return roundedRect(x, y, w, h, r)
	}

	if p.Fill != "" {
		fillPolygons(dst, p.Fill, outline(x, y, p.W, p.H, p.Radius))
	}
	if p.Stroke == "" || p.StrokeWidth <= 0 {
		return
	}

	sw := p.StrokeWidth
	outer := outline(x, y, p.W, p.H, p.Radius)
	if p.W <= 2*sw || p.H <= 2*sw {
		fillPolygons(dst, p.Stroke, outer)
		return
	}
	inner := reversed(outline(x+sw, y+sw, p.W-2*sw, p.H-2*sw, max(0, p.Radius-sw)))
	fillPolygons(dst, p.Stroke, outer, inner)
}

// fillPolygons fills the union of the given closed paths with the nonzero
// rule; a path wound opposite to its container cuts a hole.
func fillPolygons(dst *image.RGBA, hex string, paths ...[]point) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for _, path := range paths {
		if len(path) < 3 {
			continue
		}
		z.MoveTo(float32(path[0].x), float32(path[0].y))
		for _, pt := range path[1:] {
			z.LineTo(float32(pt.x), float32(pt.y))
		}
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(ParseColor(hex)), image.Point{})
}

// roundedRect returns a clockwise outline (in y-down space).
func roundedRect(x, y, w, h, r float64) []point {
	r = min(r, w/2, h/2)
	if r <= 0 {
		return []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	}
	corners := []struct {
		cx, cy, start float64
	}{
		{x + w - r, y + r, -90},
		{x + w - r, y + h - r, 0},
		{x + r, y + h - r, 90},
		{x + r, y + r, 180},
	}
	pts := make([]point, 0, 4*(arcSegments+1))
	for _, c := range corners {
		for i := 0; i <= arcSegments; i++ {
			a := (c.start + 90*float64(i)/arcSegments) * math.Pi / 180
			pts = append(pts, point{c.cx + r*math.Cos(a), c.cy + r*math.Sin(a)})
		}
	}
	return pts
}

// ellipse returns a clockwise outline inscribed in the box.
func ellipse(x, y, w, h float64) []point {
	cx, cy, rx, ry := x+w/2, y+h/2, w/2, h/2
	pts := make([]point, ellipseSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = point{cx + rx*math.Cos(a), cy + ry*math.Sin(a)}
	}
	return pts
}

func reversed(pts []point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// paintText draws with the built-in 7x13 face, scaled to the primitive's
// font size and centered on (X, Y).
func paintText(dst *image.RGBA, p Primitive, dx, dy float64) {
	if p.Text == "" || p.FontSize <= 0 {
		return
	}
	face := basicfont.Face7x13
	tw := font.MeasureString(face, p.Text).Ceil()
	th := face.Height
	if tw <= 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, tw, th))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(ParseColor(p.Fill)),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(p.Text)

	k := p.FontSize / float64(th)
	cx, cy := p.X+dx, p.Y+dy
	s2d := f64.Aff3{
		k, 0, cx - k*float64(tw)/2,
		0, k, cy - k*float64(th)/2,
	}
	draw.BiLinear.Transform(dst, s2d, glyphs, glyphs.Bounds(), draw.Over, nil)
}
