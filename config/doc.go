// Package config loads chirp's configuration file.
//
// A [File] names the minimum dispatched level, the sinks to install, and
// channels to pre-register along with the owner types bound to them:
//
//	level: info
//	sinks:
//	  - type: console
//	    format: text
//	  - type: file
//	    path: logs/chirp.jsonl
//	channels:
//	  - name: Combat
//	    color: "#ff8800"
//	    owners:
//	      - example.com/game/combat.System
//	      - gopkg.in/example/ai.v2#Planner
//
// An owner is an import path, optionally followed by ".Type". When the last
// path element itself contains a dot, separate the type with '#' instead, and
// end a dotted package owner with a bare '#'.
// The same structure may be written as TOML; [Load] picks the decoder from
// the file extension.
//
// [Schema] returns the JSON Schema for the file, and [Config] binds the
// configuration path and level override to CLI flags.
package config
