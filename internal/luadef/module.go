package luadef

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/libforge/libforge/internal/model"
)

type moduleDef struct {
	state   *lua.LState
	path    string
	init    *lua.LFunction
	prepare *lua.LFunction
	build   *lua.LFunction
}

// Init implements model.ModuleDef. The script sees the module as a table
// with set_name and add_dependency methods.
func (d *moduleDef) Init(m *model.Module) error {
	L := d.state
	var hostErr error

	_, err := call(L, d.init, d.path, &hostErr, 0, d.moduleTable(m))
	return err
}

// Prepare implements model.ModuleDef. The options argument is a table
// whose get method resolves bare names within the module's repository and
// qualified names across repositories; unset lookups yield nil. The
// script's prepare returns a truthy value if the module is available.
func (d *moduleDef) Prepare(m *model.Module, opts *model.OptionView) (bool, error) {
	L := d.state
	var hostErr error

	optTbl := L.NewTable()
	L.SetField(optTbl, "get", L.NewFunction(func(L *lua.LState) int {
		v, ok := opts.Get(nfc(L.CheckString(2)))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(v))
		return 1
	}))

	rets, err := call(L, d.prepare, d.path, &hostErr, 1, d.moduleTable(m), optTbl)
	if err != nil {
		return false, err
	}
	return len(rets) == 1 && lua.LVAsBool(rets[0]), nil
}

// Build implements model.ModuleDef. The environment table exposes the
// gated module set; the config table exposes the output path and the
// resolved options.
func (d *moduleDef) Build(env *model.Environment, cfg model.BuildContext) error {
	L := d.state
	var hostErr error

	envTbl := L.NewTable()
	L.SetField(envTbl, "modules", L.NewFunction(func(L *lua.LState) int {
		names := L.NewTable()
		for _, qname := range env.Names() {
			names.Append(lua.LString(qname))
		}
		L.Push(names)
		return 1
	}))

	cfgTbl := L.NewTable()
	L.SetField(cfgTbl, "outpath", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(cfg.OutPath()))
		return 1
	}))
	L.SetField(cfgTbl, "option", L.NewFunction(func(L *lua.LState) int {
		v, ok := cfg.Option(nfc(L.CheckString(2)))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(v))
		return 1
	}))

	_, err := call(L, d.build, d.path, &hostErr, 0, envTbl, cfgTbl)
	return err
}

func (d *moduleDef) moduleTable(m *model.Module) *lua.LTable {
	L := d.state
	tbl := L.NewTable()
	L.SetField(tbl, "set_name", L.NewFunction(func(L *lua.LState) int {
		m.SetName(nfc(L.CheckString(2)))
		return 0
	}))
	L.SetField(tbl, "add_dependency", L.NewFunction(func(L *lua.LState) int {
		m.AddDependency(nfc(L.CheckString(2)))
		return 0
	}))
	return tbl
}
