// Package project parses the CUE project request document: which
// repositories to load, which modules to assemble, option overrides, and
// the output path.
package project

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"

	"github.com/libforge/libforge/internal/model"
)

//go:embed schema.cue
var schemaSrc string

// Document is a parsed project request.
//
// Repositories holds definition-unit paths resolved against the document's
// directory. Overrides keeps the document's declaration order, since later
// overrides win during the merge stage.
type Document struct {
	Name         string
	OutPath      string
	Repositories []string
	Modules      []string
	Overrides    []model.Override
}

// Load reads and parses a project document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad,
			"reading project document "+path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	// Repository paths are relative to the document, not the working
	// directory.
	base := filepath.Dir(path)
	for i, repoPath := range doc.Repositories {
		if !filepath.IsAbs(repoPath) {
			doc.Repositories[i] = filepath.Join(base, repoPath)
		}
	}
	return doc, nil
}

// Parse parses a project document from raw CUE source. The filename is
// used in error positions only.
func Parse(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad, "compiling project schema", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad,
			"parsing project document "+filename, err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(); err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad,
			"invalid project document "+filename, err)
	}

	root := unified.LookupPath(cue.ParsePath("project"))
	if !root.Exists() {
		return nil, model.Errf(model.ErrUnitLoad,
			"project document %s has no project stanza", filename)
	}

	doc := &Document{}
	var err error
	if doc.Name, err = optionalString(root, "name"); err != nil {
		return nil, err
	}
	if doc.OutPath, err = optionalString(root, "outpath"); err != nil {
		return nil, err
	}
	if doc.Repositories, err = stringList(root, "repositories"); err != nil {
		return nil, err
	}
	if doc.Modules, err = stringList(root, "modules"); err != nil {
		return nil, err
	}
	for i, m := range doc.Modules {
		doc.Modules[i] = norm.NFC.String(m)
		if _, _, err := model.SplitQualified(doc.Modules[i]); err != nil {
			return nil, err
		}
	}
	if doc.Overrides, err = overrides(root); err != nil {
		return nil, err
	}
	return doc, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", model.WrapErr(model.ErrUnitLoad,
			fmt.Sprintf("project field %q", field), err)
	}
	return norm.NFC.String(s), nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad,
			fmt.Sprintf("project field %q", field), err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, model.WrapErr(model.ErrUnitLoad,
				fmt.Sprintf("project field %q", field), err)
		}
		out = append(out, norm.NFC.String(s))
	}
	return out, nil
}

// overrides extracts the options stanza in declaration order.
func overrides(v cue.Value) ([]model.Override, error) {
	fv := v.LookupPath(cue.ParsePath("options"))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.Fields()
	if err != nil {
		return nil, model.WrapErr(model.ErrUnitLoad, `project field "options"`, err)
	}
	var out []model.Override
	for iter.Next() {
		val, err := iter.Value().String()
		if err != nil {
			return nil, model.WrapErr(model.ErrUnitLoad,
				fmt.Sprintf("project option %q", iter.Label()), err)
		}
		out = append(out, model.Override{
			Name:  norm.NFC.String(iter.Label()),
			Value: norm.NFC.String(val),
		})
	}
	return out, nil
}
