// Package trigger turns user commands into AI requests and routes the
// results: replacement-producing actions become pending suggestions in the
// assist manager, commentary actions are delivered as notifications with a
// parsed severity. Custom actions can be defined in a Lua file.
package trigger
