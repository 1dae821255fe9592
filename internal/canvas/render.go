package canvas

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	// Extra formats for local source images.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/sketchbar/internal/clipboard"
	"github.com/example/sketchbar/internal/toolbar"
)

// writeGallery is replaced in tests.
var writeGallery = clipboard.WriteImage

// RenderOptions selects the layers composed by Render.
type RenderOptions struct {
	Transparent     bool
	IncludeImage    bool
	IncludeText     bool
	CropToImageSize bool
	// Selection outlines the selected shape. Exports leave it off.
	Selection bool
	// Stroke includes the stroke still being drawn.
	Stroke bool
}

// Live is what the window shows.
var Live = RenderOptions{IncludeImage: true, IncludeText: true, Selection: true, Stroke: true}

// SetSource sets or clears the local background image.
func (c *Canvas) SetSource(src *toolbar.LocalSourceImage) { c.loadSource(src) }

// SetSourceImage uses an already decoded image as the background.
func (c *Canvas) SetSourceImage(img image.Image, mode toolbar.ImageMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = &toolbar.LocalSourceImage{Mode: mode}
	c.sourceImg, c.sourceRect = fitSource(img, c.size, mode)
}

func (c *Canvas) loadSource(src *toolbar.LocalSourceImage) {
	var img image.Image
	if src != nil {
		var err error
		img, err = decodeFile(filepath.Join(src.Directory, src.Filename))
		if err != nil {
			log.Printf("local source image: %v", err)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if src == nil {
		c.source = nil
	} else {
		cp := *src
		c.source = &cp
	}
	c.sourceImg, c.sourceRect = nil, image.Rectangle{}
	if img != nil {
		c.sourceImg, c.sourceRect = fitSource(img, c.size, src.Mode)
	}
}

// fitSource scales img onto a transparent canvas-sized layer according to
// mode and returns the layer with the area the image covers.
func fitSource(img image.Image, size image.Point, mode toolbar.ImageMode) (image.Image, image.Rectangle) {
	b := img.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}
	}
	sx := float64(size.X) / float64(b.Dx())
	sy := float64(size.Y) / float64(b.Dy())
	var dst image.Rectangle
	switch mode {
	case toolbar.ModeScaleToFill:
		dst = image.Rect(0, 0, size.X, size.Y)
	case toolbar.ModeAspectFill:
		s := math.Max(sx, sy)
		dst = centred(image.Pt(int(math.Round(float64(b.Dx())*s)), int(math.Round(float64(b.Dy())*s))), size)
	default:
		s := math.Min(sx, sy)
		dst = centred(image.Pt(int(math.Round(float64(b.Dx())*s)), int(math.Round(float64(b.Dy())*s))), size)
	}
	layer := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	xdraw.CatmullRom.Scale(layer, dst, img, b, xdraw.Src, nil)
	return layer, dst.Intersect(layer.Bounds())
}

func centred(inner, outer image.Point) image.Rectangle {
	min := image.Pt((outer.X-inner.X)/2, (outer.Y-inner.Y)/2)
	return image.Rectangle{Min: min, Max: min.Add(inner)}
}

// Render composes the canvas into a new image.
func (c *Canvas) Render(opts RenderOptions) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderLocked(opts)
}

func (c *Canvas) renderLocked(opts RenderOptions) *image.RGBA {
	bounds := image.Rect(0, 0, c.size.X, c.size.Y)
	out := image.NewRGBA(bounds)
	if !opts.Transparent {
		draw.Draw(out, bounds, image.NewUniform(c.bg), image.Point{}, draw.Src)
	}
	if opts.IncludeImage && c.sourceImg != nil {
		draw.Draw(out, bounds, c.sourceImg, image.Point{}, draw.Over)
	}
	if opts.IncludeText {
		c.drawTextLocked(out, toolbar.SketchOnText)
	}

	sketch := image.NewRGBA(bounds)
	for _, p := range c.paths {
		drawPath(sketch, p, c.size)
	}
	if opts.Stroke && c.stroke != nil {
		drawPath(sketch, *c.stroke, c.size)
	}
	for _, s := range c.shapes {
		drawShape(sketch, s)
	}
	if opts.Selection && c.selected != nil {
		drawSelection(sketch, c.selected, c.shapeConf)
	}
	draw.Draw(out, bounds, sketch, image.Point{}, draw.Over)

	if opts.IncludeText {
		c.drawTextLocked(out, toolbar.TextOnSketch)
	}
	if opts.CropToImageSize && !c.sourceRect.Empty() {
		out = cropImage(out, c.sourceRect)
	}
	return out
}

func (c *Canvas) drawTextLocked(img *image.RGBA, overlay toolbar.TextOverlay) {
	for _, t := range c.text {
		o := t.Overlay
		if o == "" {
			o = toolbar.TextOnSketch
		}
		if o != overlay {
			continue
		}
		b, err := layoutText(t.Text, t.Font, t.FontSize, t.LineHeightMultiple)
		if err != nil {
			log.Printf("text overlay: %v", err)
			continue
		}
		col, err := t.FontColor.NRGBA()
		if err != nil {
			col = color.NRGBA{A: 255}
		}
		b.draw(img, textOrigin(t, b, c.size), col, t.Alignment)
	}
}

// drawPath rasterises p, scaling its points from the size it was drawn at.
func drawPath(img *image.RGBA, p toolbar.Path, size image.Point) {
	col, err := p.Path.Color.NRGBA()
	if err != nil {
		return
	}
	sx, sy := 1.0, 1.0
	if p.Size.Width > 0 && p.Size.Height > 0 {
		sx = float64(size.X) / p.Size.Width
		sy = float64(size.Y) / p.Size.Height
	}
	pts := make([]image.Point, 0, len(p.Path.Data))
	for _, d := range p.Path.Data {
		pt, err := ParsePoint(d)
		if err != nil {
			continue
		}
		pts = append(pts, image.Pt(int(math.Round(pt.X*sx)), int(math.Round(pt.Y*sy))))
	}
	if len(pts) == 0 {
		return
	}
	width := int(math.Round(float64(p.Path.Width) * math.Min(sx, sy)))
	if width < 1 {
		width = 1
	}
	l := newLayer(img.Bounds())
	drawPolyline(l, pts, width)
	l.composite(img, col)
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, t toolbar.ImageType) error {
	switch t {
	case toolbar.ImageJPG:
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: 95})
	case toolbar.ImagePNG, "":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image type %q", t)
	}
}

// flatten paints img over white since JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

// Extension returns the file extension for t.
func Extension(t toolbar.ImageType) string {
	if t == toolbar.ImageJPG {
		return ".jpg"
	}
	return ".png"
}

// ErrInvalidFilename is returned by SavePath for names that are not a plain
// file name inside the save folder.
var ErrInvalidFilename = errors.New("invalid filename")

// SavePath is the file Save writes cmd to. The extension for cmd.ImageType
// is appended unless name already carries it.
func SavePath(cmd toolbar.SaveCommand) (string, error) {
	name := cmd.Filename
	if name == "" {
		name = toolbar.DefaultFilename(time.Now())
	}
	if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, cmd.Filename)
	}
	if !hasExtension(name, cmd.ImageType) {
		name += Extension(cmd.ImageType)
	}
	return filepath.Join(cmd.Folder, name), nil
}

func hasExtension(name string, t toolbar.ImageType) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if t == toolbar.ImageJPG {
		return ext == ".jpg" || ext == ".jpeg"
	}
	return ext == Extension(t)
}

// Save renders the canvas and writes it in the background. The outcome is
// reported through Events.SketchSaved.
func (c *Canvas) Save(cmd toolbar.SaveCommand) {
	path, perr := SavePath(cmd)
	if perr != nil {
		c.mu.Lock()
		ev := c.events
		c.wg.Add(1)
		c.mu.Unlock()
		log.Printf("save: %v", perr)
		go func() {
			defer c.wg.Done()
			if ev != nil {
				ev.SketchSaved(false, cmd.Filename)
			}
		}()
		return
	}
	c.mu.Lock()
	img := c.renderLocked(RenderOptions{
		Transparent:     cmd.Transparent,
		IncludeImage:    cmd.IncludeImage,
		IncludeText:     cmd.IncludeText,
		CropToImageSize: cmd.CropToImageSize,
	})
	ev := c.events
	gallery := c.gallery
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		err := writeImageFile(path, img, cmd.ImageType)
		if err != nil {
			log.Printf("save %s: %v", path, err)
		}
		if err == nil && cmd.CopyToGallery {
			gerr := writeGallery(img)
			if gerr != nil {
				log.Printf("copy to gallery: %v", gerr)
			}
			if gallery != nil {
				gallery(path, gerr)
			}
		}
		if ev != nil {
			ev.SketchSaved(err == nil, path)
		}
	}()
}

func writeImageFile(path string, img image.Image, t toolbar.ImageType) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create folder: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Base64 renders the canvas and calls done from a background goroutine
// with the encoded image.
func (c *Canvas) Base64(req toolbar.Base64Request, done func(err error, result string)) {
	c.mu.Lock()
	img := c.renderLocked(RenderOptions{
		Transparent:     req.Transparent,
		IncludeImage:    req.IncludeImage,
		IncludeText:     req.IncludeText,
		CropToImageSize: req.CropToImageSize,
	})
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		var buf bytes.Buffer
		if err := Encode(&buf, img, req.ImageType); err != nil {
			if done != nil {
				done(err, "")
			}
			return
		}
		if done != nil {
			done(nil, base64.StdEncoding.EncodeToString(buf.Bytes()))
		}
	}()
}

// Wait blocks until every pending Save and Base64 has finished.
func (c *Canvas) Wait() { c.wg.Wait() }
