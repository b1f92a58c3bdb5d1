package trigger

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// CustomAction is a user-defined action loaded from a Lua actions file.
type CustomAction struct {
	// Name invokes the action. Must not collide with a built-in action.
	Name string

	// Task is the instruction handed to the model in place of a built-in
	// task description.
	Task string

	// Replace marks the action as producing replacement code rather than
	// commentary.
	Replace bool
}

// LoadCustomActions executes the Lua file at path and collects the entries
// of its global "actions" table. Each entry is a table with string fields
// "name" and "task" and an optional boolean "replace":
//
//	actions = {
//	    { name = "shorten", task = "Make this code shorter.", replace = true },
//	}
func LoadCustomActions(path string) ([]CustomAction, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("load actions %s: %w", path, err)
	}

	tbl, ok := L.GetGlobal("actions").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("load actions %s: global 'actions' table not defined", path)
	}

	var (
		out     []CustomAction
		iterErr error
	)
	tbl.ForEach(func(key, value lua.LValue) {
		if iterErr != nil {
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			iterErr = fmt.Errorf("load actions %s: entry %s is not a table", path, key.String())
			return
		}
		a := CustomAction{
			Name:    lua.LVAsString(entry.RawGetString("name")),
			Task:    lua.LVAsString(entry.RawGetString("task")),
			Replace: lua.LVAsBool(entry.RawGetString("replace")),
		}
		if a.Name == "" || a.Task == "" {
			iterErr = fmt.Errorf("load actions %s: entry %s needs 'name' and 'task'", path, key.String())
			return
		}
		out = append(out, a)
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return out, nil
}
