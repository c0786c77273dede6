package build

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/oshokin/version-stamper/internal/domain/stamp"
)

// ErrUnknownVariant is returned when a requested variant is not part of the matrix.
var ErrUnknownVariant = errors.New("unknown build variant")

// Flavor is a product flavor, e.g. a distribution channel.
type Flavor struct {
	// Name is the flavor identifier, e.g. "play".
	Name string
	// Dimension groups mutually exclusive flavors, e.g. "dist".
	Dimension string
	// ApplicationID overrides the base application id when set.
	ApplicationID string
	// AppName overrides the base display name when set.
	AppName string
}

// BuildType pairs a build type name with its versioning rule.
type BuildType struct {
	Name    string
	Variant stamp.BuildVariant
}

// Variant is one buildable combination of flavors and a build type.
type Variant struct {
	// Name follows the <flavor...><BuildType> convention, e.g. "freePlayRelease".
	Name string
	// Flavor is the combined flavor name, e.g. "freePlay"; empty without flavors.
	Flavor string
	// Flavors lists the flavor of every dimension, in dimension order.
	Flavors       []string
	BuildType     string
	Kind          stamp.BuildVariant
	ApplicationID string
	AppName       string
}

// Defaults holds the values a flavor inherits when it does not override them.
type Defaults struct {
	ApplicationID string
	AppName       string
}

// Matrix expands flavors and build types into variants.
//
// Flavors are grouped by dimension, dimensions ordered by first appearance.
// Every variant picks one flavor per dimension; flavor combinations are the
// outer loop and build types the inner one, both in declaration order.
// Overrides of an earlier dimension win over later ones.
// Without flavors each build type forms a variant on its own.
func Matrix(defaults Defaults, flavors []Flavor, buildTypes []BuildType) []Variant {
	combinations := flavorCombinations(flavors)
	variants := make([]Variant, 0, len(combinations)*len(buildTypes))

	for _, combination := range combinations {
		names := make([]string, 0, len(combination))
		applicationID, appName := defaults.ApplicationID, defaults.AppName

		// Walk backwards so the first dimension applies its override last.
		for i := len(combination) - 1; i >= 0; i-- {
			if combination[i].ApplicationID != "" {
				applicationID = combination[i].ApplicationID
			}

			if combination[i].AppName != "" {
				appName = combination[i].AppName
			}
		}

		for _, flavor := range combination {
			names = append(names, flavor.Name)
		}

		var flavorName string
		if len(names) > 0 {
			flavorName = VariantName(names...)
		}

		for _, buildType := range buildTypes {
			variants = append(variants, Variant{
				Name:          VariantName(append(slices.Clone(names), buildType.Name)...),
				Flavor:        flavorName,
				Flavors:       slices.Clone(names),
				BuildType:     buildType.Name,
				Kind:          buildType.Variant,
				ApplicationID: applicationID,
				AppName:       appName,
			})
		}
	}

	return variants
}

// flavorCombinations returns the cartesian product of flavors across dimensions.
// It yields a single empty combination when there are no flavors.
func flavorCombinations(flavors []Flavor) [][]Flavor {
	var (
		dimensions []string
		groups     = make(map[string][]Flavor)
	)

	for _, flavor := range flavors {
		if _, ok := groups[flavor.Dimension]; !ok {
			dimensions = append(dimensions, flavor.Dimension)
		}

		groups[flavor.Dimension] = append(groups[flavor.Dimension], flavor)
	}

	combinations := [][]Flavor{{}}

	for _, dimension := range dimensions {
		next := make([][]Flavor, 0, len(combinations)*len(groups[dimension]))

		for _, combination := range combinations {
			for _, flavor := range groups[dimension] {
				next = append(next, append(slices.Clone(combination), flavor))
			}
		}

		combinations = next
	}

	return combinations
}

// VariantName joins name parts in lower camel case, e.g. "play", "release" -> "playRelease".
func VariantName(parts ...string) string {
	return strcase.ToLowerCamel(strings.TrimSpace(strings.Join(parts, " ")))
}

// Filter keeps the variants whose names appear in names, preserving matrix order.
// Names match case-insensitively. An empty names list keeps every variant.
func Filter(variants []Variant, names []string) ([]Variant, error) {
	if len(names) == 0 {
		return variants, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = false
	}

	selected := make([]Variant, 0, len(names))

	for _, variant := range variants {
		key := strings.ToLower(variant.Name)
		if _, ok := wanted[key]; !ok {
			continue
		}

		wanted[key] = true

		selected = append(selected, variant)
	}

	for _, name := range names {
		if !wanted[strings.ToLower(name)] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
		}
	}

	return selected, nil
}
