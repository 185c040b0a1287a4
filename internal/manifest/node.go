package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"go.trai.ch/zerr"
)

// PackageJSONParser parses package.json files (direct dependencies only)
type PackageJSONParser struct{}

// packageJSONSections maps the dependency objects we read to their environment
var packageJSONSections = map[string]models.InstallEnvironment{
	"dependencies":     models.EnvironmentRequired,
	"peerDependencies": models.EnvironmentRequired,
	"devDependencies":  models.EnvironmentDev,
}

// CanParse returns true for package.json files
func (p *PackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

// Parse extracts dependencies from package.json content. The document is read
// token by token so object keys keep their declaration order.
func (p *PackageJSONParser) Parse(path string, content []byte) ([]models.Dependency, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, invalid(err, path)
	}

	var deps []models.Dependency
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, invalid(err, path)
		}

		env, ok := packageJSONSections[key]
		if !ok {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, invalid(err, path)
			}
			continue
		}

		section, err := p.parseSection(dec, content, path, env)
		if err != nil {
			return nil, invalid(err, path)
		}
		deps = append(deps, section...)
	}

	return deps, nil
}

func (p *PackageJSONParser) parseSection(dec *json.Decoder, content []byte, path string, env models.InstallEnvironment) ([]models.Dependency, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var deps []models.Dependency
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		line := lineAt(content, dec.InputOffset())

		var constraint string
		if err := dec.Decode(&constraint); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "dependency version must be a string"), "package", name)
		}

		deps = append(deps, models.Dependency{
			Name:        name,
			Ecosystem:   models.EcosystemNpm,
			Environment: env,
			Constraint:  constraint,
			SourceFile:  path,
			Line:        line,
		})
	}

	return deps, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return zerr.With(zerr.New("unexpected token"), "want", want.String())
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", zerr.New("expected object key")
	}
	return key, nil
}
