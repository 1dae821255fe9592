package sketchui

import (
	"fmt"

	"github.com/example/sketchbar/internal/toolbar"
)

// Dispatch runs the controller entry point for hit. It reports whether the
// window should close and a short status message for the user.
func Dispatch(ctrl *toolbar.Controller, hit Hit) (closed bool, message string, err error) {
	switch hit.Action {
	case ActionSwatch:
		if err := ctrl.SwatchIndexTapped(hit.Index); err != nil {
			return false, "", err
		}
		st := ctrl.State()
		return false, fmt.Sprintf("%s alpha %s", st.Color, st.Alpha), nil
	case ActionErase:
		ctrl.EraseTapped()
		return false, "eraser", nil
	case ActionWidth:
		return false, fmt.Sprintf("width %d", ctrl.WidthTapped()), nil
	case ActionUndo:
		if ctrl.UndoTapped() == toolbar.NothingToUndo {
			return false, "nothing to undo", nil
		}
	case ActionUndoShape:
		if ctrl.UndoShapeTapped() == toolbar.NothingToUndo {
			return false, "no shape to undo", nil
		}
	case ActionClear:
		ctrl.ClearTapped()
	case ActionDeleteShape:
		if !ctrl.DeleteSelectedShapeTapped() {
			return false, "turn touch drawing off to delete shapes", nil
		}
	case ActionSave:
		cmd, err := ctrl.SaveTapped()
		if err != nil {
			return false, "", fmt.Errorf("save: %w", err)
		}
		return false, "saving " + cmd.Filename, nil
	case ActionClose:
		ctrl.CloseTapped()
		return true, "", nil
	case ActionAddShape:
		ctrl.AddShape(toolbar.AddShapeConfig{ShapeType: hit.Shape})
	case ActionToggleTouch:
		enabled := ctrl.DeleteEnabled()
		ctrl.SetTouchEnabled(enabled)
		if enabled {
			return false, "touch drawing on", nil
		}
		return false, "touch drawing off", nil
	case ActionFontBigger:
		ctrl.IncreaseSelectedShapeFontSize()
	case ActionFontSmaller:
		ctrl.DecreaseSelectedShapeFontSize()
	}
	return false, "", nil
}
