// Package ui renders the status text bugspot prints for humans. It is kept
// apart from logging: status lines go to stdout, logs go to stderr.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode controls when status text is colourised.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses the output.color setting.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	case "":
		return ColorAuto, nil
	default:
		return ColorAuto, fmt.Errorf("unknown color mode %q (auto, always, never)", s)
	}
}

// Semantic colours
var (
	ColorInfo    = lipgloss.Color("#20B9B4")
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#7F8C8D")
)

// Icon prefixes a status line
type Icon string

const (
	IconInfo    Icon = "→"
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
)

type styles struct {
	title   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
}

// Printer writes styled status lines to a single writer.
type Printer struct {
	out    io.Writer
	color  bool
	styles styles
}

// NewPrinter creates a printer for out. Colour is decided once, here.
func NewPrinter(out io.Writer, mode ColorMode) *Printer {
	color := ShouldColor(mode, out, os.LookupEnv)

	renderer := lipgloss.NewRenderer(out)
	if color {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:   out,
		color: color,
		styles: styles{
			title:   renderer.NewStyle().Bold(true).Foreground(ColorSuccess),
			info:    renderer.NewStyle().Foreground(ColorInfo),
			success: renderer.NewStyle().Foreground(ColorSuccess).Bold(true),
			warning: renderer.NewStyle().Foreground(ColorWarning),
			err:     renderer.NewStyle().Foreground(ColorError).Bold(true),
			muted:   renderer.NewStyle().Foreground(ColorMuted),
			bold:    renderer.NewStyle().Bold(true),
		},
	}
}

// ShouldColor reports whether output to w should carry ANSI colour codes.
// NO_COLOR (https://no-color.org) wins over auto detection but not over an
// explicit "always".
func ShouldColor(mode ColorMode, w io.Writer, lookupEnv func(string) (string, bool)) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if _, ok := lookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Colored reports whether this printer emits colour.
func (p *Printer) Colored() bool {
	return p.color
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Title prints a bold heading
func (p *Printer) Title(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.styles.title.Render(fmt.Sprintf(format, args...)))
}

// Info prints a progress line
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(IconInfo, p.styles.info, format, args...)
}

// Success prints a success line
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(IconSuccess, p.styles.success, format, args...)
}

// Warn prints a warning line
func (p *Printer) Warn(format string, args ...interface{}) {
	p.line(IconWarning, p.styles.warning, format, args...)
}

// Error prints a failure line
func (p *Printer) Error(format string, args ...interface{}) {
	p.line(IconError, p.styles.err, format, args...)
}

// Hint prints an indented, muted follow-up line
func (p *Printer) Hint(format string, args ...interface{}) {
	fmt.Fprintln(p.out, "  "+p.styles.muted.Render(fmt.Sprintf(format, args...)))
}

// Item prints a bulleted entry with an optional muted description.
func (p *Printer) Item(name, description string) {
	line := fmt.Sprintf("  %s %s", IconBullet, p.styles.bold.Render(name))
	if description != "" {
		line += " " + p.styles.muted.Render(description)
	}
	fmt.Fprintln(p.out, line)
}

// Plain prints text without styling
func (p *Printer) Plain(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(icon Icon, style lipgloss.Style, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.out, style.Render(string(icon)+" "+msg))
}
