package tui

import "github.com/charmbracelet/lipgloss"

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headlineStyle = lipgloss.NewStyle().Bold(true)

	overdueHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	todayHeaderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	upcomingHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	userStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	focusedFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)
