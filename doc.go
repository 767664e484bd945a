// Package chirp routes leveled, channel-tagged log events to a set of sinks.
//
// A [Dispatcher] moves through three states. It starts uninitialized, becomes
// active once [Dispatcher.Initialize] is given at least one [Sink], and is shut
// down by [Dispatcher.Shutdown]. Log calls made while no sinks are active are
// dropped without error: logging never fails the caller.
//
//	d := chirp.New()
//	d.Initialize(sink.NewSlog(handler), sink.NewFile("game.log"))
//	defer d.Shutdown()
//
//	d.Info("server started on", addr)
//	d.WarningCh(d.Channel("Network"), "slow peer", peer)
//
// Every log call builds one immutable [Event] and appends it to each sink in
// registration order. When a call does not name a channel (or names
// [channel.Fallback]), the channel is inferred from the call stack: the
// innermost frame whose declaring type is bound in the dispatcher's
// [channel.Registry] supplies it.
//
//	type Player struct{ log *chirp.Dispatcher }
//
//	d.Registry().Bind(channel.TypeOf[Player]())
//
//	func (p *Player) Attack() {
//	    p.log.Info("attack") // event channel is "player"
//	}
//
// Levels are metadata. The dispatcher filters only by the minimum level set
// with [WithMinLevel]; sinks may filter further.
//
// The package-level functions ([Info], [Warning], ...) use the process-wide
// dispatcher returned by [Default].
package chirp
