package model

import "strings"

// Option is a named, repository-scoped configuration slot. Its value may be
// unset until the merge stage runs; an option still unset after merge is a
// fatal configuration error.
type Option struct {
	name  string
	repo  string // owning repository name (non-owning back-reference)
	value string
	set   bool
}

// Name returns the option's name, unique within its owning repository.
func (o *Option) Name() string { return o.name }

// Repository returns the name of the owning repository.
func (o *Option) Repository() string { return o.repo }

// QualifiedName returns the "repository:option" form.
func (o *Option) QualifiedName() string { return QualifiedName(o.repo, o.name) }

// Value returns the option's value and whether it has been set.
func (o *Option) Value() (string, bool) { return o.value, o.set }

// SetValue assigns the option's value. Called when a default is declared
// and by the merge stage; never afterward.
func (o *Option) SetValue(v string) {
	o.value = v
	o.set = true
}

// OptionView is the resolved-option view handed to a module's prepare
// callback. Bare names resolve against the module's owning repository;
// qualified "repository:option" names grant cross-repository read access.
// The view is read-only: prepare must not mutate options.
type OptionView struct {
	repo     string
	resolved map[string]string // qualified option name -> value
}

// NewOptionView creates a view scoped to the given repository over the
// fully resolved option set.
func NewOptionView(repo string, resolved map[string]string) *OptionView {
	return &OptionView{repo: repo, resolved: resolved}
}

// Get looks up an option value. A bare name is resolved within the view's
// repository; a name containing ':' is treated as fully qualified.
func (v *OptionView) Get(name string) (string, bool) {
	qname := name
	if !strings.Contains(name, ":") {
		qname = QualifiedName(v.repo, name)
	}
	val, ok := v.resolved[qname]
	return val, ok
}

// Repository returns the repository this view is scoped to.
func (v *OptionView) Repository() string { return v.repo }

// Override is one raw option override entry from the project request
// document. Name follows the two-part ("repo:option" or ":option"
// wildcard) or reserved three-part qualification rules; later entries win
// over earlier ones for the same option.
type Override struct {
	Name  string
	Value string
}
