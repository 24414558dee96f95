// ABOUTME: Build-tagged import pins for the dashboard's charm stack.
// ABOUTME: Keeps the TUI libraries in go.mod even when the dashboard is stripped.

//go:build tools

package tools

import (
	_ "github.com/charmbracelet/bubbles"
	_ "github.com/charmbracelet/bubbletea"
	_ "github.com/charmbracelet/huh"
	_ "github.com/charmbracelet/lipgloss"
)
