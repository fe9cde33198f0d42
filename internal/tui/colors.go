package tui

// Color constants for the daylog theme, shared by the tracker and reports
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, project names, user input
	ColorSecondaryText = "#B1B8C7" // Timestamps, table cells
	ColorDisabledText  = "#6D7383" // Empty states, inactive categories
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Borders, chart bars
	ColorAccentBright = "#A78BFA" // Clock, headings, selected category

	// State Colors
	ColorError   = "#EF4444" // Rejected actions
	ColorSuccess = "#22C55E" // Totals, confirmations
	ColorWarning = "#F59E0B" // Confirm prompts
)
