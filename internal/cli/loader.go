package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"

	"github.com/roach88/numberenum/internal/compiler"
	"github.com/roach88/numberenum/internal/ir"
)

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeOutputClash = "E008" // Two types map to one output file

	// Declaration compile errors. E201 and E202 are the generation errors
	// reported by the compiler package.
	ErrCodeTypeName   = "E203" // type name is not an identifier
	ErrCodeKind       = "E204" // unknown kind
	ErrCodeAttributes = "E205" // malformed attribute list
	ErrCodeVariants   = "E206" // malformed variants
)

// LoadResult contains the declarations loaded from a specs directory.
type LoadResult struct {
	Declarations []*ir.Declaration
	FileCount    int
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads and compiles every declaration in dir.
//
// A nil result means the directory could not be loaded at all; the single
// error says why. Otherwise declaration compile errors are collected and
// returned alongside the declarations that did compile.
func LoadSpecs(dir string) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	value, err := compiler.LoadDir(dir)
	if err != nil {
		code := ErrCodeGeneric
		switch {
		case errors.Is(err, compiler.ErrLoad):
			code = ErrCodeLoadFailed
		case errors.Is(err, compiler.ErrBuild):
			code = ErrCodeBuildFailed
		}
		loadErr := &LoadError{Code: code, Message: err.Error()}
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) {
			loadErr.Pos = compileErr.Pos
		}
		return nil, []error{loadErr}
	}

	decls, compileErrs := compiler.CompileAll(value)
	result := &LoadResult{Declarations: decls, FileCount: len(cueFiles)}

	var errs []error
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err))
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "name":
		return ErrCodeTypeName
	case "kind":
		return ErrCodeKind
	case "attributes":
		return ErrCodeAttributes
	case "variants":
		return ErrCodeVariants
	default:
		return ErrCodeGeneric
	}
}

// generationError is implemented by the compiler's coded errors.
type generationError interface {
	error
	Code() string
	Message() string
}

// toCLIError converts any load, compile or generation error for output.
func toCLIError(err error) CLIError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		e := CLIError{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			e.Position = fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		return e
	}

	var shapeErr *compiler.DeclarationShapeError
	if errors.As(err, &shapeErr) {
		return fromGenerationError(shapeErr, shapeErr.TypeName, shapeErr.Pos)
	}
	var reprErr *compiler.ReprAttributeError
	if errors.As(err, &reprErr) {
		return fromGenerationError(reprErr, reprErr.TypeName, reprErr.Pos)
	}

	return CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}

func fromGenerationError(err generationError, typeName string, pos ir.Position) CLIError {
	e := CLIError{Code: err.Code(), Message: err.Message(), Type: typeName}
	if pos.IsValid() {
		e.Position = pos.String()
	}
	return e
}
