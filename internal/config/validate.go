package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed settings.cue
var schemaCUE string

// FieldError reports a settings value that failed schema validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("settings: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("settings: %s", e.Message)
}

// Validate checks settings against the embedded CUE schema.
// Uses the CUE SDK's Go API directly (not a CLI subprocess); the Go struct
// is encoded via its json tags, which mirror the CUE field names.
func Validate(settings Settings) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Settings"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("settings schema: %w", err)
	}

	value := ctx.Encode(settings)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError converts a CUE validation error into a FieldError carrying
// the offending field's path. CUE errors may contain multiple errors; the
// first one wins.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	format, args := first.Msg()
	return &FieldError{
		Field:   strings.Join(fieldPath(first.Path()), "."),
		Message: fmt.Sprintf(format, args...),
	}
}

// fieldPath drops the leading definition selectors ("#Settings") that some
// cue releases prepend to error paths of values unified with a definition,
// leaving just the settings field the user can act on.
func fieldPath(path []string) []string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return path
}
