package toolbar

// Handlers are the caller's notification callbacks. Any of them may be nil.
type Handlers struct {
	OnStrokeStart           func()
	OnStrokeChanged         func()
	OnStrokeEnd             func(path Path, gestureState string)
	OnPathsChange           func(count int)
	OnShapeSelectionChanged func(selected bool)
	OnDrawingStateChanged   func(state DrawingState)
	OnPathIDAssigned        func()
	OnStrokeChangedData     func(path Path)
	OnSketchSaved           func(success bool, path string)
	OnUndo                  func(id int)
	OnClear                 func()
	OnClose                 func()
}

// Events is implemented by whatever receives canvas-originated events. The
// Controller implements it and relays each event to its Handlers unchanged.
type Events interface {
	StrokeStarted()
	StrokeChanged()
	StrokeEnded(path Path, gestureState string)
	PathsChanged(count int)
	ShapeSelectionChanged(selected bool)
	DrawingStateChanged(state DrawingState)
	PathIDAssigned()
	StrokeChangedData(path Path)
	SketchSaved(success bool, path string)
}

var _ Events = (*Controller)(nil)

func (c *Controller) snapshotHandlers() Handlers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handlers
}

// SetHandlers replaces the registered callbacks.
func (c *Controller) SetHandlers(h Handlers) {
	c.mu.Lock()
	c.handlers = h
	c.mu.Unlock()
}

// StrokeStarted relays the start of a freehand stroke to OnStrokeStart.
func (c *Controller) StrokeStarted() {
	if fn := c.snapshotHandlers().OnStrokeStart; fn != nil {
		fn()
	}
}

// StrokeChanged relays stroke growth to OnStrokeChanged.
func (c *Controller) StrokeChanged() {
	if fn := c.snapshotHandlers().OnStrokeChanged; fn != nil {
		fn()
	}
}

// StrokeEnded relays the finished path and gesture state to OnStrokeEnd.
func (c *Controller) StrokeEnded(path Path, gestureState string) {
	if fn := c.snapshotHandlers().OnStrokeEnd; fn != nil {
		fn(path, gestureState)
	}
}

// PathsChanged relays the new path count to OnPathsChange.
func (c *Controller) PathsChanged(count int) {
	if fn := c.snapshotHandlers().OnPathsChange; fn != nil {
		fn(count)
	}
}

// ShapeSelectionChanged relays selection changes to OnShapeSelectionChanged.
func (c *Controller) ShapeSelectionChanged(selected bool) {
	if fn := c.snapshotHandlers().OnShapeSelectionChanged; fn != nil {
		fn(selected)
	}
}

// DrawingStateChanged relays the canvas drawing state to OnDrawingStateChanged.
func (c *Controller) DrawingStateChanged(state DrawingState) {
	if fn := c.snapshotHandlers().OnDrawingStateChanged; fn != nil {
		fn(state)
	}
}

// PathIDAssigned relays ID assignment for an added path to OnPathIDAssigned.
func (c *Controller) PathIDAssigned() {
	if fn := c.snapshotHandlers().OnPathIDAssigned; fn != nil {
		fn()
	}
}

// StrokeChangedData relays the in-progress path to OnStrokeChangedData.
func (c *Controller) StrokeChangedData(path Path) {
	if fn := c.snapshotHandlers().OnStrokeChangedData; fn != nil {
		fn(path)
	}
}

// SketchSaved relays the canvas save result, including failures, verbatim.
func (c *Controller) SketchSaved(success bool, path string) {
	if fn := c.snapshotHandlers().OnSketchSaved; fn != nil {
		fn(success, path)
	}
}
