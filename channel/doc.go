// Package channel implements the identity and registry of log channels.
//
// A [Channel] is a named, colored category for grouping related log events
// independently of their severity. Channel ids are case-insensitive: "Combat"
// and "COMBAT" name the same channel, and a [Registry] holds exactly one
// canonical instance per id.
//
// Colors are never stored by callers. [ColorFor] derives them from the id, so
// every process computes the same color for the same channel.
//
// Source-code types can be bound to a channel with [Registry.Bind] or
// [Registry.BindTo]. The dispatcher uses [Registry.ForOwner] to attribute log
// calls that did not name a channel to the channel of the nearest bound type
// on the call stack:
//
//	reg := channel.NewRegistry()
//	reg.Bind(channel.TypeOf[Player]())    // binds Player to channel "player"
//	combat := reg.Get("Combat")
//	reg.BindTo(channel.TypeOf[Weapon](), combat)
package channel
