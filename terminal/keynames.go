package terminal

import "strconv"

// kindToName maps fixed key kinds to display names
var kindToName = map[KeyKind]string{
	KeyNone:   "None",
	KeyUp:     "ArrowUp",
	KeyDown:   "ArrowDown",
	KeyLeft:   "ArrowLeft",
	KeyRight:  "ArrowRight",
	KeyDelete: "Delete",
	KeyEscape: "Escape",
	KeyReturn: "Return",
	KeyTab:    "Tab",
}

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	default:
		return "None"
	}
}

// String renders the key in the form used by the input-test tool and logs
func (k Key) String() string {
	switch k.Kind {
	case KeyControl:
		return "Control('" + string(k.Rune) + "')"
	case KeyRune:
		return "Character(" + strconv.QuoteRune(k.Rune) + ")"
	case KeyMouseDown, KeyMouseUp:
		name := "MouseDown"
		if k.Kind == KeyMouseUp {
			name = "MouseUp"
		}
		return name + "(" + k.Button.String() + ", " + strconv.Itoa(k.Col) + ", " + strconv.Itoa(k.Row) + ")"
	}
	if name, ok := kindToName[k.Kind]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(k.Kind)) + ")"
}
