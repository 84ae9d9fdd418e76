package boot

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// NewLayout derives the directories of a run from the resolved base directory.
func NewLayout(base, output string) (Layout, error) {
	if !filepath.IsAbs(base) {
		return Layout{}, &ResolveError{Entry: base, Err: eris.New("base directory is not absolute")}
	}

	if output == "" {
		output = DefaultOutput
	}

	err := ValidateOutput(output)
	if err != nil {
		return Layout{}, &FilesystemError{Path: output, Err: err}
	}

	rel := filepath.Clean(filepath.FromSlash(output))
	return Layout{
		Base:      base,
		Output:    filepath.Join(base, rel),
		OutputRel: filepath.ToSlash(rel),
	}, nil
}

// Run enters the base directory, ensures the output directory exists and configures the build
// system. The first failing step ends the run.
func Run(ctx context.Context, layout Layout, configurator *Configurator) error {
	Log(ctx).Debug().Str("path", layout.Base).Msg("entering base directory")
	err := Enter(layout.Base)
	if err != nil {
		return err
	}

	Log(ctx).Debug().Str("path", layout.Output).Msg("ensuring output directory")
	_, err = EnsureDir(layout.Base, layout.OutputRel)
	if err != nil {
		return err
	}

	if configurator == nil {
		configurator = &Configurator{}
	}

	return configurator.Run(ctx, layout)
}
