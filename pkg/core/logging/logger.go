package logging

import (
	nxlog "github.com/nexusroot/nexus/foundation/core/log"
)

// Level is the subset of foundation levels exposed to services
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var toFoundation = map[Level]nxlog.Level{
	LevelDebug: nxlog.LevelDebug,
	LevelInfo:  nxlog.LevelInfo,
	LevelWarn:  nxlog.LevelWarn,
	LevelError: nxlog.LevelError,
}

func (l Level) foundation() nxlog.Level {
	if fl, ok := toFoundation[l]; ok {
		return fl
	}
	return nxlog.LevelInfo
}

func (l Level) String() string {
	if _, ok := toFoundation[l]; !ok {
		return "unknown"
	}
	return l.foundation().String()
}
