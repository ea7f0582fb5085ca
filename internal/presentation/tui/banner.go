package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the flowcore ASCII banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String("   __ _                                ").Foreground(p.Color("#34d399"))
	s2 := termenv.String("  / _| | _____      _____ ___  _ __ ___").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String(" | |_| |/ _ \\ \\ /\\ / / __/ _ \\| '__/ _ \\").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String(" |  _| | (_) \\ V  V / (_| (_) | | |  __/").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String(" |_| |_|\\___/ \\_/\\_/ \\___\\___/|_|  \\___|").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
