package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/numberenum/internal/ir"
)

// DeclarationsPath is the top-level CUE field holding type declarations.
const DeclarationsPath = "type"

// Load failure classes, matched with errors.Is.
var (
	ErrLoad  = errors.New("loading CUE files")
	ErrBuild = errors.New("building CUE value")
)

// LoadDir builds the CUE package in dir.
func LoadDir(dir string) (cue.Value, error) {
	return loadInstance([]string{"."}, &load.Config{Dir: dir})
}

// LoadFiles builds the given CUE files as a single instance.
func LoadFiles(paths []string) (cue.Value, error) {
	if len(paths) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE files given")
	}
	return loadInstance(paths, &load.Config{})
}

func loadInstance(args []string, cfg *load.Config) (cue.Value, error) {
	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("%w: no CUE instances loaded", ErrLoad)
	}

	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("%w: %w", ErrLoad, inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("%w: %w", ErrBuild, formatCUEError(err))
	}

	return value, nil
}

// CompileAll compiles every declaration under the top-level "type" field.
// A failing declaration does not stop the others; its error is collected
// and compilation continues.
func CompileAll(value cue.Value) ([]*ir.Declaration, []error) {
	var decls []*ir.Declaration
	var errs []error

	typesVal := value.LookupPath(cue.ParsePath(DeclarationsPath))
	if !typesVal.Exists() {
		return decls, errs
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	for iter.Next() {
		decl, err := CompileDeclaration(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		decls = append(decls, decl)
	}

	return decls, errs
}
