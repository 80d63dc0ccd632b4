// @focus: #sys { io } #input { keys }
package terminal

// KeyKind identifies the variant carried by a Key
type KeyKind uint8

const (
	KeyNone KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyDelete
	KeyEscape
	KeyReturn
	KeyTab
	KeyControl // Ctrl+letter, letter in Key.Rune
	KeyRune    // Printable character in Key.Rune
	KeyMouseDown
	KeyMouseUp
)

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
)

// Key is one decoded keyboard or mouse event
// Comparable by value: Control('C') == Key{Kind: KeyControl, Rune: 'C'}
type Key struct {
	Kind KeyKind
	Rune rune

	// Mouse fields, set for KeyMouseDown/KeyMouseUp only
	// Col and Row are the 1-based cell coordinates as reported by the terminal
	Button MouseButton
	Col    int
	Row    int
}

// Fixed keys
var (
	ArrowUp    = Key{Kind: KeyUp}
	ArrowDown  = Key{Kind: KeyDown}
	ArrowLeft  = Key{Kind: KeyLeft}
	ArrowRight = Key{Kind: KeyRight}
	Delete     = Key{Kind: KeyDelete}
	Escape     = Key{Kind: KeyEscape}
	Return     = Key{Kind: KeyReturn}
	Tab        = Key{Kind: KeyTab}
)

// Control returns the Ctrl+letter key, letter is upper case ('C' for 0x03)
func Control(letter rune) Key {
	return Key{Kind: KeyControl, Rune: letter}
}

// Char returns the printable character key
func Char(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

// MouseDown returns a button press at the given cell
func MouseDown(btn MouseButton, col, row int) Key {
	return Key{Kind: KeyMouseDown, Button: btn, Col: col, Row: row}
}

// MouseUp returns a button release at the given cell
func MouseUp(btn MouseButton, col, row int) Key {
	return Key{Kind: KeyMouseUp, Button: btn, Col: col, Row: row}
}

// IsMouse reports whether the key is a mouse report
func (k Key) IsMouse() bool {
	return k.Kind == KeyMouseDown || k.Kind == KeyMouseUp
}
