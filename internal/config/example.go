package config

import (
	"embed"
	"os"

	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

//go:embed examples/config.rb examples/site.yaml
var exampleFiles embed.FS

// Example returns the sample configuration for format. JSONC has no
// separate sample; the YAML one is returned.
func Example(format Format) []byte {
	name := "examples/config.rb"
	if format != FormatDSL {
		name = "examples/site.yaml"
	}
	data, err := exampleFiles.ReadFile(name)
	if err != nil {
		panic("config: embedded example missing: " + err.Error())
	}
	return data
}

// Init writes an example configuration file. The format follows the file
// extension. An existing file is only replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists: " + path + " (use --force to overwrite)").
			WithPosition(path, 0, 0).
			Build()
	}
	if err := os.WriteFile(path, Example(DetectFormat(path)), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithPosition(path, 0, 0).
			Build()
	}
	return nil
}
