package color

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	output       = termenv.NewOutput(os.Stdout)
	colorEnabled = true
)

func init() {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		EnableColor(false)
	}
}

// EnableColor switches styled output on or off
func EnableColor(enable bool) {
	colorEnabled = enable
	if enable {
		output = termenv.NewOutput(os.Stdout, termenv.WithProfile(termenv.ANSI256))
	} else {
		output = termenv.NewOutput(os.Stdout, termenv.WithProfile(termenv.Ascii))
	}
}

func IsColorEnabled() bool {
	return colorEnabled
}

// names of the console colors a program may pick, as ANSI colors
var named = map[string]termenv.ANSIColor{
	"black":       termenv.ANSIBlack,
	"darkred":     termenv.ANSIRed,
	"darkgreen":   termenv.ANSIGreen,
	"darkyellow":  termenv.ANSIYellow,
	"darkblue":    termenv.ANSIBlue,
	"darkmagenta": termenv.ANSIMagenta,
	"darkcyan":    termenv.ANSICyan,
	"gray":        termenv.ANSIWhite,
	"darkgray":    termenv.ANSIBrightBlack,
	"red":         termenv.ANSIBrightRed,
	"green":       termenv.ANSIBrightGreen,
	"yellow":      termenv.ANSIBrightYellow,
	"blue":        termenv.ANSIBrightBlue,
	"magenta":     termenv.ANSIBrightMagenta,
	"cyan":        termenv.ANSIBrightCyan,
	"white":       termenv.ANSIBrightWhite,
}

// Named looks a console color up by name, ignoring case
func Named(name string) (termenv.Color, bool) {
	c, ok := named[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Paint renders text in c, or unchanged when color is disabled
func Paint(c termenv.Color, text string) string {
	if !colorEnabled || c == nil {
		return text
	}

	return output.String(text).Foreground(c).String()
}

func RedText(text string) string    { return Paint(termenv.ANSIRed, text) }
func GreenText(text string) string  { return Paint(termenv.ANSIGreen, text) }
func YellowText(text string) string { return Paint(termenv.ANSIYellow, text) }
func BlueText(text string) string   { return Paint(termenv.ANSIBlue, text) }
func CyanText(text string) string   { return Paint(termenv.ANSICyan, text) }
func GrayText(text string) string   { return Paint(termenv.ANSIBrightBlack, text) }

func BrightRedText(text string) string {
	return Paint(termenv.ANSIBrightRed, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}

	return output.String(text).Bold().String()
}

func Error(message string) string {
	return BrightRedText("Error: ") + message
}

func Warning(message string) string {
	return YellowText("Warning: ") + message
}

func Position(line, col int) string {
	return CyanText(fmt.Sprintf("%d:%d", line, col))
}

// Diagnostic renders one compile-time problem with its position
func Diagnostic(line, col int, code, message string, warning bool) string {
	label := BrightRedText(BoldText("Error"))
	if warning {
		label = YellowText(BoldText("Warning"))
	}

	return fmt.Sprintf("%s at %s: %s %s", label, Position(line, col), message, GrayText("("+code+")"))
}

// SetTitle changes the terminal window title when styled output is on
func SetTitle(title string) {
	if !colorEnabled {
		return
	}

	output.SetWindowTitle(title)
}
