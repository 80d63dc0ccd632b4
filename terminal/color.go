package terminal

// Color is an SGR foreground color code; the background variant is the code + 10
type Color uint8

// 8-color palette and bright variants
const (
	ColorBlack   Color = 30
	ColorRed     Color = 31
	ColorGreen   Color = 32
	ColorYellow  Color = 33
	ColorBlue    Color = 34
	ColorMagenta Color = 35
	ColorCyan    Color = 36
	ColorWhite   Color = 37

	ColorGray          Color = 90
	ColorBrightRed     Color = 91
	ColorBrightGreen   Color = 92
	ColorBrightYellow  Color = 93
	ColorBrightBlue    Color = 94
	ColorBrightMagenta Color = 95
	ColorBrightCyan    Color = 96
	ColorBrightWhite   Color = 97
)

// bgOffset converts a foreground code into its background code
const bgOffset = 10

// Background returns the SGR background code for c
func (c Color) Background() uint8 {
	return uint8(c) + bgOffset
}
