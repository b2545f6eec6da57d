package luadef

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/libforge/libforge/internal/model"
)

type repositoryDef struct {
	state   *lua.LState
	prepare *lua.LFunction
	path    string
}

// Prepare implements model.RepositoryDef. It exposes the repository to the
// script as a table with set_name, add_option, and add_module methods,
// then invokes the script's prepare function.
func (d *repositoryDef) Prepare(r *model.Repository) error {
	L := d.state
	var hostErr error

	tbl := L.NewTable()
	L.SetField(tbl, "set_name", L.NewFunction(func(L *lua.LState) int {
		r.SetName(nfc(L.CheckString(2)))
		return 0
	}))
	// add_option("name") declares an option without a value;
	// add_option("name", "default") declares one with a default.
	L.SetField(tbl, "add_option", L.NewFunction(func(L *lua.LState) int {
		name := nfc(L.CheckString(2))
		var err error
		if def := L.Get(3); def != lua.LNil {
			err = r.AddOptionDefault(name, lua.LVAsString(def))
		} else {
			err = r.AddOption(name)
		}
		if err != nil {
			hostErr = err
			L.RaiseError("%v", err)
		}
		return 0
	}))
	// add_module registers a module file path relative to the repository
	// directory.
	L.SetField(tbl, "add_module", L.NewFunction(func(L *lua.LState) int {
		r.AddModule(L.CheckString(2))
		return 0
	}))

	_, err := call(L, d.prepare, d.path, &hostErr, 0, tbl)
	return err
}
