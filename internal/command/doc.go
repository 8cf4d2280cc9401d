// Package command implements the busylight control grammar.
//
// The grammar is a small path language consumed left to right. It arrives
// either as a plain resource path from the local control-plane listener or
// as a custom URL (scheme://busylight/... or scheme://v1/busylight/...),
// which is percent-decoded and reduced to the same path form.
//
// Productions:
//
//	/v1/busylight[/state]                               -> state
//	/v1/busylight/logs | /log                           -> logs
//	/v1/busylight/auto                                  -> auto
//	/v1/busylight/rules/{on|off}                        -> rules(bool)
//	/v1/busylight/off                                   -> manual(off, 600ms fixed)
//	/v1/busylight/hex/{rrggbb}[/{mode}/{period}]        -> manual
//	/v1/busylight/rgb/{r}/{g}/{b}[/{mode}/{period}]     -> manual
//	/v1/busylight/{colour}[/{mode}/{period}]            -> manual
//
// Each production consumes exactly the tokens it needs; any surplus token
// is rejected as too_many_path_segments so malformed client input fails
// loudly instead of being silently truncated. Every failure is a typed
// *ParseError carrying an HTTP-style status code: unknown_resource maps
// to 404, all other grammar violations to 400.
package command
