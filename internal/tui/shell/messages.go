package shell

import (
	"time"

	"github.com/nexusroot/nexus/internal/game/command"
)

type entryKind int

const (
	entryInput entryKind = iota
	entryOutput
	entryError
	entrySystem
)

// entry is one block in the scrollback
type entry struct {
	kind entryKind
	text string
}

// resultMsg is sent when a command line finished executing
type resultMsg struct {
	line     string
	result   *command.Result
	duration time.Duration
}
