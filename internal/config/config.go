package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/version-stamper/internal/domain/build"
	"github.com/oshokin/version-stamper/internal/domain/stamp"
)

// Config holds the project layout used to build the variant matrix.
type Config struct {
	// ApplicationID is the base application id inherited by flavors.
	ApplicationID string `yaml:"application_id,omitempty"`
	// AppName is the base display name inherited by flavors.
	AppName string `yaml:"app_name,omitempty"`
	// BuildTypes lists build type names; each must map to a known build variant.
	BuildTypes []string `yaml:"build_types"`
	// Flavors lists product flavors. They never affect versioning.
	Flavors []Flavor `yaml:"flavors,omitempty"`
	// Output holds the default output settings.
	Output Output `yaml:"output,omitempty"`
}

// Flavor describes a single product flavor.
type Flavor struct {
	Name          string `yaml:"name"`
	Dimension     string `yaml:"dimension,omitempty"`
	ApplicationID string `yaml:"application_id,omitempty"`
	AppName       string `yaml:"app_name,omitempty"`
}

// Output holds where and how stamps are written.
type Output struct {
	// Format is one of the output encoders; empty means auto-detect.
	Format string `yaml:"format,omitempty"`
	// Path is the destination file; empty means standard output.
	Path string `yaml:"path,omitempty"`
}

const (
	// DefaultConfigFilename is the configuration looked up when no path is given.
	DefaultConfigFilename = "version-stamper.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNoBuildTypes is returned when the configuration declares no build types.
	errNoBuildTypes = errors.New("at least one build type must be declared")

	// errMissingDimension is returned when only some flavors declare a dimension.
	errMissingDimension = errors.New("dimension must be set on every flavor once any flavor declares one")

	// flavorNamePattern accepts Java identifiers, as Android requires for flavor names.
	flavorNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	// applicationIDPattern mirrors the Android package name rules.
	applicationIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
)

// Default returns the built-in configuration: release and debug, no flavors.
func Default() *Config {
	return &Config{
		BuildTypes: []string{stamp.Release.String(), stamp.Debug.String()},
	}
}

// Load reads configuration from the provided path and validates it.
// With an empty path the default file is used if present, otherwise Default.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := new(Config)
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the configuration and reports every problem at once.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	var merr *multierror.Error

	if len(cfg.BuildTypes) == 0 {
		merr = multierror.Append(merr, errNoBuildTypes)
	}

	seenBuildTypes := make(map[string]struct{}, len(cfg.BuildTypes))

	for _, name := range cfg.BuildTypes {
		if _, err := stamp.ParseBuildVariant(name); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("build type: %w", err))
		}

		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seenBuildTypes[key]; ok {
			merr = multierror.Append(merr, fmt.Errorf("build type %q declared twice", name))
		}

		seenBuildTypes[key] = struct{}{}
	}

	if err := validateApplicationID(cfg.ApplicationID); err != nil {
		merr = multierror.Append(merr, err)
	}

	merr = multierror.Append(merr, validateFlavors(cfg.Flavors)...)

	return merr.ErrorOrNil()
}

// BuildTypeList converts the declared build types into domain values.
// The configuration is expected to be valid.
func (c *Config) BuildTypeList() ([]build.BuildType, error) {
	buildTypes := make([]build.BuildType, 0, len(c.BuildTypes))

	for _, name := range c.BuildTypes {
		variant, err := stamp.ParseBuildVariant(name)
		if err != nil {
			return nil, err
		}

		buildTypes = append(buildTypes, build.BuildType{
			Name:    strings.TrimSpace(name),
			Variant: variant,
		})
	}

	return buildTypes, nil
}

// FlavorList converts the declared flavors into domain values.
func (c *Config) FlavorList() []build.Flavor {
	flavors := make([]build.Flavor, 0, len(c.Flavors))

	for _, flavor := range c.Flavors {
		flavors = append(flavors, build.Flavor{
			Name:          flavor.Name,
			Dimension:     flavor.Dimension,
			ApplicationID: flavor.ApplicationID,
			AppName:       flavor.AppName,
		})
	}

	return flavors
}

// Variants builds the full variant matrix of the project.
func (c *Config) Variants() ([]build.Variant, error) {
	buildTypes, err := c.BuildTypeList()
	if err != nil {
		return nil, err
	}

	defaults := build.Defaults{
		ApplicationID: c.ApplicationID,
		AppName:       c.AppName,
	}

	return build.Matrix(defaults, c.FlavorList(), buildTypes), nil
}

// validateFlavors checks flavor names, their variant-name collisions and dimensions.
func validateFlavors(flavors []Flavor) []error {
	var (
		errs          []error
		seen          = make(map[string]string, len(flavors))
		withDimension int
	)

	for i, flavor := range flavors {
		if flavor.Dimension != "" {
			withDimension++
		}

		if !flavorNamePattern.MatchString(flavor.Name) {
			errs = append(errs, fmt.Errorf("flavor #%d: name %q must be a Java identifier", i+1, flavor.Name))

			continue
		}

		// Distinct names such as play_store and playStore still yield one variant name.
		key := strings.ToLower(build.VariantName(flavor.Name))
		if previous, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("flavor %q declared twice (clashes with %q)", flavor.Name, previous))
		} else {
			seen[key] = flavor.Name
		}

		if err := validateApplicationID(flavor.ApplicationID); err != nil {
			errs = append(errs, fmt.Errorf("flavor %q: %w", flavor.Name, err))
		}
	}

	if withDimension > 0 && withDimension < len(flavors) {
		errs = append(errs, errMissingDimension)
	}

	return errs
}

func validateApplicationID(id string) error {
	if id == "" || applicationIDPattern.MatchString(id) {
		return nil
	}

	return fmt.Errorf("invalid application id %q", id)
}
