package store

import "time"

// Run is one recorded resolution run.
type Run struct {
	ID        string
	Project   string // project document path
	OutPath   string
	CreatedAt time.Time

	Repositories []RepositoryRecord
	Options      []OptionRecord
	Modules      []ModuleRecord
}

// RepositoryRecord captures one loaded repository.
type RepositoryRecord struct {
	Name    string
	Path    string
	Modules int // number of loaded modules
}

// OptionRecord captures one resolved option value.
type OptionRecord struct {
	Name  string // qualified "repository:option"
	Value string
}

// ModuleRecord captures one selected module in selection order.
type ModuleRecord struct {
	Name      string // qualified "repository:module"
	Requested bool   // named in the project request, not pulled in as a dependency
}

// RunSummary is the listing view of a run, without child records.
type RunSummary struct {
	ID        string
	Project   string
	CreatedAt time.Time
	Modules   int
}
