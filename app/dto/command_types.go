package dto

// CommandDefinition describes validation rules for one admin command kind.
type CommandDefinition struct {
	// RequiresTargetUser is set for kinds that act on a single player.
	RequiresTargetUser bool
}

// CommandRegistry is the closed enumeration of admin command kinds. Anything
// outside this map is rejected at enqueue time.
var CommandRegistry = map[string]CommandDefinition{
	"kick_player":       {RequiresTargetUser: true},
	"ban_player":        {RequiresTargetUser: true},
	"unban_player":      {},
	"message_player":    {RequiresTargetUser: true},
	"broadcast_message": {},
	"server_shutdown":   {},
	"server_restart":    {},
	"give_admin":        {RequiresTargetUser: true},
	"remove_admin":      {RequiresTargetUser: true},
	"teleport_player":   {RequiresTargetUser: true},
	"change_gamemode":   {},
}
