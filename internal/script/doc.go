// Package script provides a Lua-programmable capture policy.
//
// Applications can decide auto-capture and auto-release in a Lua script
// instead of compiling a policy in. The script defines two functions:
//
//	function should_capture(event)
//	  return event.kind == "press"
//	end
//
//	function should_release(entry, event)
//	  return event.kind == "cancel" or (event.kind == "release" and event.held == 0)
//	end
//
// Event and entry values arrive as plain tables. Scripts run sandboxed:
// only the base, table, string, and math libraries are opened, so io, os,
// and debug are unavailable; file and dynamic code loading are removed;
// and each call is bounded by a timeout. When the script errors or a
// function is missing, the policy falls back to the built-in default and
// reports the error.
package script
