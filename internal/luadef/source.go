package luadef

import (
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/text/unicode/norm"

	"github.com/libforge/libforge/internal/model"
)

// RepoFileName is the definition unit every repository directory must
// contain.
const RepoFileName = "repo.lua"

// Source loads Lua definition units from one repository directory. It
// implements model.Source.
//
// Each unit gets a fresh Lua state; Close releases all of them. A Source
// is not safe for concurrent use.
type Source struct {
	dir    string
	states []*lua.LState
}

// NewSource creates a source over a repository directory containing
// repo.lua.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the repository directory.
func (s *Source) Dir() string { return s.dir }

// Close releases every Lua state created by this source. Definitions
// returned earlier must not be used afterward.
func (s *Source) Close() {
	for _, L := range s.states {
		L.Close()
	}
	s.states = nil
}

func (s *Source) newState() *lua.LState {
	L := lua.NewState()
	s.states = append(s.states, L)
	return L
}

// Repository implements model.Source by executing repo.lua and binding
// its prepare function.
func (s *Source) Repository() (model.RepositoryDef, error) {
	path := filepath.Join(s.dir, RepoFileName)
	L := s.newState()
	if err := L.DoFile(path); err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad,
			"executing repository definition "+path, err)
	}
	fn, ok := L.GetGlobal("prepare").(*lua.LFunction)
	if !ok {
		return nil, model.Errf(model.ErrMissingPrepare,
			"no prepare function in repository definition %s", path)
	}
	return &repositoryDef{state: L, prepare: fn, path: path}, nil
}

// Module implements model.Source by executing a module file and binding
// its init, prepare, and build functions.
func (s *Source) Module(path string) (model.ModuleDef, error) {
	full := filepath.Join(s.dir, path)
	L := s.newState()
	if err := L.DoFile(full); err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad,
			"executing module definition "+full, err)
	}

	def := &moduleDef{state: L, path: full}
	for _, binding := range []struct {
		name string
		dst  **lua.LFunction
	}{
		{"init", &def.init},
		{"prepare", &def.prepare},
		{"build", &def.build},
	} {
		fn, ok := L.GetGlobal(binding.name).(*lua.LFunction)
		if !ok {
			return nil, model.Errf(model.ErrMissingCallback,
				"no %s function in module definition %s", binding.name, full)
		}
		*binding.dst = fn
	}
	return def, nil
}

// call invokes a Lua callback with the given arguments. A host-side
// configuration error raised inside a bound method wins over the Lua
// error that aborted the script.
func call(L *lua.LState, fn *lua.LFunction, path string, hostErr *error, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	top := L.GetTop()
	if err := L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		if *hostErr != nil {
			return nil, *hostErr
		}
		return nil, model.WrapErr(model.ErrUnitLoad, "in definition unit "+path, err)
	}
	if *hostErr != nil {
		return nil, *hostErr
	}
	rets := make([]lua.LValue, 0, nret)
	for i := top + 1; i <= L.GetTop(); i++ {
		rets = append(rets, L.Get(i))
	}
	L.SetTop(top)
	return rets, nil
}

// nfc normalizes a name crossing the Lua boundary so visually identical
// definitions compare equal.
func nfc(s string) string {
	return norm.NFC.String(s)
}
