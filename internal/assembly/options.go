package assembly

import (
	"strings"

	"github.com/libforge/libforge/internal/model"
)

// MergeOptions combines the option declarations of every loaded repository
// with the project-supplied overrides into a single resolved option set.
//
// Override keys dispatch by shape:
//
//	"repo:option" - sets exactly that option in that repository
//	":option"     - wildcard: sets every option with that bare name,
//	                across every repository that declares it
//	"a:b:c"       - accepted but ignored, reserved for per-module options
//
// Later overrides win over earlier ones for the same option; a wildcard
// followed by a qualified override leaves the qualified value in place.
// After all overrides are applied, every declared option must have a
// value; any option still unset is a fatal configuration error naming it.
func (a *Assembler) MergeOptions(overrides []model.Override) error {
	// Index all declared options by qualified name and by bare name.
	byQualified := make(map[string]*model.Option)
	byBare := make(map[string][]*model.Option)
	for _, repo := range a.repositories {
		for _, name := range repo.OptionNames() {
			opt := repo.Option(name)
			byQualified[opt.QualifiedName()] = opt
			byBare[name] = append(byBare[name], opt)
		}
	}

	for _, ov := range overrides {
		parts := strings.Split(ov.Name, ":")
		switch len(parts) {
		case 2:
			repoName, optName := parts[0], parts[1]
			if repoName == "" {
				opts, ok := byBare[optName]
				if !ok {
					return model.Errf(model.ErrUnknownOption,
						"no repository declares an option named %q", optName)
				}
				for _, opt := range opts {
					opt.SetValue(ov.Value)
				}
				continue
			}
			opt, ok := byQualified[ov.Name]
			if !ok {
				return model.Errf(model.ErrUnknownOption,
					"unknown option %q: no such repository or option", ov.Name)
			}
			opt.SetValue(ov.Value)
		case 3:
			// Reserved for future per-module options; no effect today.
		default:
			return model.Errf(model.ErrMalformedName, "invalid option override %q", ov.Name)
		}
	}

	// Every declared option must have a value now. Scan in declaration
	// order so the first failure is deterministic.
	resolved := make(map[string]string, len(byQualified))
	for _, repo := range a.repositories {
		for _, name := range repo.OptionNames() {
			opt := repo.Option(name)
			v, ok := opt.Value()
			if !ok {
				return model.Errf(model.ErrOptionUnset,
					"no value for option %q: provide one in the project configuration",
					opt.QualifiedName())
			}
			resolved[opt.QualifiedName()] = v
		}
	}
	a.resolved = resolved
	return nil
}
