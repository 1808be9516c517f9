package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/skeincare/internal/updater"
)

// catalogChangedMsg reports that a brand file changed on disk
type catalogChangedMsg struct {
	brand string
}

// watchErrorMsg reports a failure of the catalog watcher
type watchErrorMsg struct {
	err error
}

// updateCheckedMsg carries the result of the background release check
type updateCheckedMsg struct {
	result *updater.Result
	err    error
}

// clearStatusMsg clears the status line if it still shows the given id
type clearStatusMsg struct {
	id int
}

const statusTimeout = 4 * time.Second

func clearStatusAfter(id int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}
