package room

// EditMode selects whether the edit panel is shown.
type EditMode uint8

const (
	Viewing EditMode = iota
	Editing
)

func (m EditMode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// ControlState holds the process-wide toggles that are not stored on
// entities. Lamp and tile state live on the room itself.
type ControlState struct {
	Mode     EditMode
	Playing  bool
	RoadMode bool

	// Selected is the ID of the building shown in the editor, 0 for none.
	Selected int
}

// ToggleEditMode switches between Viewing and Editing and returns the new
// mode.
func (s *ControlState) ToggleEditMode() EditMode {
	if s.Mode == Viewing {
		s.Mode = Editing
	} else {
		s.Mode = Viewing
	}
	return s.Mode
}

// PanelVisible reports whether the edit panel should be drawn.
func (s *ControlState) PanelVisible() bool {
	return s.Mode == Editing
}
