package main

import "github.com/charmbracelet/lipgloss"

// Terminal style definitions.
var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
)
