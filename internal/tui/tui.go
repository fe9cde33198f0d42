package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunTrackerTUI starts the interactive tracker until the user quits
func RunTrackerTUI(ctx context.Context, engine Engine) error {
	model := NewTrackerModel(ctx, engine)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Leave a summary on the normal screen
	if m, ok := finalModel.(TrackerModel); ok {
		switch {
		case m.entry() != nil:
			fmt.Printf("⏱  Still tracking %s #%s. Use 'daylog stop' to stop it.\n", m.entry().Project, m.entry().Category)
		case m.session() != nil && m.session().IsOpen():
			fmt.Printf("📅 Day %s is running, %s so far.\n", m.session().SessionDate, formatHours(m.sessionHours()))
		}
	}

	return nil
}
