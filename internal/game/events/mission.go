package events

import (
	"context"
	"fmt"
)

// MissionHook is notified after every successfully executed command so
// mission objectives can advance
type MissionHook interface {
	OnCommandExecuted(ctx context.Context, player, command string, success bool, data map[string]interface{}) error
}

// MissionHookFunc adapts a function to MissionHook
type MissionHookFunc func(ctx context.Context, player, command string, success bool, data map[string]interface{}) error

// OnCommandExecuted calls f
func (f MissionHookFunc) OnCommandExecuted(ctx context.Context, player, command string, success bool, data map[string]interface{}) error {
	return f(ctx, player, command, success, data)
}

// SubscribeMissionHook forwards CommandExecuted events to hook and returns
// the subscription id
func SubscribeMissionHook(b *Bus, hook MissionHook) string {
	return b.Subscribe(CommandExecuted, HandlerFunc(func(ctx context.Context, e Event) error {
		player := e.String("player_name")
		command := e.String("command")
		if command == "" {
			return fmt.Errorf("event %s has no command", e.ID)
		}
		success, _ := e.Data["success"].(bool)
		return hook.OnCommandExecuted(ctx, player, command, success, e.Data)
	}))
}
