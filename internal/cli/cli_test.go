package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture materializes a Lua repository and a project document for CLI
// tests. The repository "core" has a gated uart module and a timer module
// depending on it.
type fixture struct {
	RepoDir string
	Project string
	OutDir  string
}

func newFixture(t *testing.T, projectCUE string) *fixture {
	t.Helper()
	root := t.TempDir()
	repoDir := filepath.Join(root, "core")

	files := map[string]string{
		"core/repo.lua": `
function prepare(repo)
	repo:set_name("core")
	repo:add_option("arch")
	repo:add_module("uart/module.lua")
	repo:add_module("timer/module.lua")
end
`,
		"core/uart/module.lua": `
function init(module)
	module:set_name("uart")
end

function prepare(module, options)
	return options:get("arch") == "avr"
end

function build(env, config)
	local f = assert(io.open(config:outpath() .. "/uart.txt", "w"))
	f:write("arch=" .. config:option("core:arch"))
	f:close()
end
`,
		"core/timer/module.lua": `
function init(module)
	module:set_name("timer")
	module:add_dependency("core:uart")
end

function prepare(module, options)
	return true
end

function build(env, config)
	local f = assert(io.open(config:outpath() .. "/timer.txt", "w"))
	f:write("ok")
	f:close()
end
`,
		"project.cue": projectCUE,
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return &fixture{
		RepoDir: repoDir,
		Project: filepath.Join(root, "project.cue"),
		OutDir:  filepath.Join(root, "out"),
	}
}

const avrProject = `
project: {
	modules: ["core:timer"]
	options: {"core:arch": "avr"}
}
`

// runCommand executes the root command with the given arguments and
// returns stdout, stderr, and the execution error.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
