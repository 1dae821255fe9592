package toolbar

// ImageType selects the encoding used when exporting the canvas.
type ImageType string

const (
	ImagePNG ImageType = "png"
	ImageJPG ImageType = "jpg"
)

// NothingToUndo is returned by Canvas.Undo and Canvas.UndoShape when the
// history is empty.
const NothingToUndo = 0

// Size is a canvas size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Point is a position on the canvas.
type Point struct {
	X float64
	Y float64
}

// PathData is one freehand stroke. Data holds "x,y" point pairs.
type PathData struct {
	ID    int
	Color Color
	Width int
	Data  []string
}

// Path is a stroke together with the size of the canvas it was drawn on.
type Path struct {
	Drawer string
	Size   Size
	Path   PathData
}

// DrawingState is reported whenever undo/delete availability or the active
// shape changes.
type DrawingState struct {
	CanUndo     bool
	CanDelete   bool
	ShapeType   ShapeType
	DrawingStep int
}

// ShapeType names a structured drawing primitive.
type ShapeType string

const (
	ShapeCircle          ShapeType = "Circle"
	ShapeText            ShapeType = "Text"
	ShapeImage           ShapeType = "Image"
	ShapeRect            ShapeType = "Rect"
	ShapeSquare          ShapeType = "Square"
	ShapeTriangle        ShapeType = "Triangle"
	ShapeArrow           ShapeType = "Arrow"
	ShapeRuler           ShapeType = "Ruler"
	ShapeMeasurementTool ShapeType = "MeasurementTool"
)

// ShapeTypes lists every supported shape type.
func ShapeTypes() []ShapeType {
	return []ShapeType{ShapeCircle, ShapeText, ShapeImage, ShapeRect, ShapeSquare, ShapeTriangle, ShapeArrow, ShapeRuler, ShapeMeasurementTool}
}

// AddShapeConfig requests insertion of a new shape.
type AddShapeConfig struct {
	ShapeType  ShapeType
	FontType   string
	FontSize   float64
	Text       string
	ImageAsset string
}

// BorderStyle is the outline drawn around the selected shape.
type BorderStyle string

const (
	BorderDashed BorderStyle = "Dashed"
	BorderSolid  BorderStyle = "Solid"
)

// ShapeConfiguration styles inserted shapes.
type ShapeConfiguration struct {
	BorderColor       Color
	BorderStyle       BorderStyle
	BorderStrokeWidth int
	Color             Color
	StrokeWidth       int
}

// DefaultShapeConfiguration matches the stock editor look.
func DefaultShapeConfiguration() ShapeConfiguration {
	return ShapeConfiguration{
		BorderColor:       EraseColor,
		BorderStyle:       BorderDashed,
		BorderStrokeWidth: 1,
		Color:             "#000000",
		StrokeWidth:       3,
	}
}

// TextOverlay decides whether text is drawn above or below the sketch.
type TextOverlay string

const (
	TextOnSketch TextOverlay = "TextOnSketch"
	SketchOnText TextOverlay = "SketchOnText"
)

// Coordinate selects how CanvasText positions are interpreted.
type Coordinate string

const (
	CoordinateAbsolute Coordinate = "Absolute"
	CoordinateRatio    Coordinate = "Ratio"
)

// Alignment aligns lines of multi-line text.
type Alignment string

const (
	AlignLeft   Alignment = "Left"
	AlignCenter Alignment = "Center"
	AlignRight  Alignment = "Right"
)

// CanvasText is a static text overlay rendered by the canvas.
type CanvasText struct {
	Text               string
	Font               string
	FontSize           float64
	FontColor          Color
	Overlay            TextOverlay
	Anchor             Point
	Position           Point
	Coordinate         Coordinate
	Alignment          Alignment
	LineHeightMultiple float64
}

// ImageMode controls how a local source image is fitted to the canvas.
type ImageMode string

const (
	ModeAspectFill  ImageMode = "AspectFill"
	ModeAspectFit   ImageMode = "AspectFit"
	ModeScaleToFill ImageMode = "ScaleToFill"
)

// LocalSourceImage is a background image loaded by the canvas.
type LocalSourceImage struct {
	Filename  string
	Directory string
	Mode      ImageMode
}

// Base64Request holds the export flags for Canvas.Base64.
type Base64Request struct {
	ImageType       ImageType
	Transparent     bool
	IncludeImage    bool
	IncludeText     bool
	CropToImageSize bool
}

// Canvas is the drawing surface driven by the controller. Save and Base64
// complete asynchronously; Save reports through the OnSketchSaved handler.
type Canvas interface {
	Clear()
	Undo() int
	UndoShape() int
	DeleteSelectedShape()
	UnselectShape()
	AddPath(Path)
	DeletePath(id int)
	AddShape(AddShapeConfig)
	IncreaseSelectedShapeFontSize()
	DecreaseSelectedShapeFontSize()
	ChangeSelectedShapeText(text string)
	Save(SaveCommand)
	Paths() []Path
	Base64(req Base64Request, done func(err error, result string))
}
