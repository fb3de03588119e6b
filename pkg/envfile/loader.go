package envfile

import (
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Load reads the base definition file plus an optional deployment-specific
// file and validates the result against the schema. Values from the
// deployment file replace values from the base file key by key.
//
// Validation is exact-match and exhaustive: every schema variable missing
// from the loaded set is reported in a single *MissingVariableError, and
// every loaded variable absent from the schema is reported in a single
// *UnexpectedVariableError. There is no best-effort mode.
//
// The silent flag suppresses the informational log lines only. Validation
// failures are never suppressed.
func Load(basePath, overridePath string, schema Schema, silent bool) (RawSet, error) {
	raw, err := parseFile(basePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load base environment file %q", basePath)
	}

	if overridePath != "" {
		override, err := parseFile(overridePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "failed to load environment file %q", overridePath)
			}
			if !silent {
				log.Debug().Str("file", overridePath).Msg("No deployment environment file, using base definitions only")
			}
		} else {
			for k, v := range override {
				raw[k] = v
			}
			if !silent {
				log.Info().Str("file", overridePath).Int("variables", len(override)).Msg("Loaded deployment environment overrides")
			}
		}
	}

	if err := validate(raw, schema); err != nil {
		return nil, err
	}

	if !silent {
		log.Info().Int("variables", len(raw)).Msg("Environment definitions loaded and validated")
	}

	return raw, nil
}

// parseFile reads a single key=value file into a RawSet.
func parseFile(path string) (RawSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Failed to close environment file")
		}
	}()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, "malformed environment file")
	}

	return RawSet(values), nil
}

// validate enforces the exact-match contract between the loaded set and the
// schema. Both checks are exhaustive so operators see every violation in a
// single failed boot instead of one per restart.
func validate(raw RawSet, schema Schema) error {
	var missing []string
	for _, name := range schema {
		if _, ok := raw[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingVariableError{Names: missing}
	}

	var unexpected []string
	for name := range raw {
		if !schema.Contains(name) {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return &UnexpectedVariableError{Names: unexpected}
	}

	return nil
}
