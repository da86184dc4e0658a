// Package variant resolves the per-variant artifact sets of an Android
// project: obfuscation mapping files and merged native libraries.
// Application and library variants are two kinds under one Discoverer
// capability; they differ only in which artifacts a build produces
// (library builds emit no mapping file).
package variant

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Kind distinguishes the two variant shapes.
type Kind int

const (
	KindApplication Kind = iota
	KindLibrary
)

func (k Kind) String() string {
	if k == KindLibrary {
		return "library"
	}

	return "application"
}

// Variant is one build configuration with its resolved artifact paths.
type Variant struct {
	Name         string
	Kind         Kind
	MappingFiles []string
	NativeLibs   []string
}

// Discoverer lists the variants of a project with their artifacts
// already resolved to absolute paths.
type Discoverer interface {
	Variants() ([]Variant, error)
}

// New returns the discoverer for the given project directory and kind.
func New(projectDir string, kind Kind) Discoverer {
	if kind == KindLibrary {
		return &libraryDiscoverer{projectDir: projectDir}
	}

	return &applicationDiscoverer{projectDir: projectDir}
}

type applicationDiscoverer struct {
	projectDir string
}

// Variants enumerates application variants from the mapping output
// directory, attaching the merged native libraries of each.
func (d *applicationDiscoverer) Variants() ([]Variant, error) {
	names, err := variantNames(filepath.Join(d.projectDir, "build", "outputs", "mapping"))
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, 0, len(names))
	for _, name := range names {
		v := Variant{Name: name, Kind: KindApplication}

		mapping := filepath.Join(d.projectDir, "build", "outputs", "mapping", name, "mapping.txt")
		if _, err := os.Stat(mapping); err == nil {
			v.MappingFiles = append(v.MappingFiles, mapping)
		}

		v.NativeLibs, err = nativeLibs(d.projectDir, name)
		if err != nil {
			return nil, err
		}

		variants = append(variants, v)
	}

	return variants, nil
}

type libraryDiscoverer struct {
	projectDir string
}

// Variants enumerates library variants. Libraries produce no mapping
// file, so only native libraries are resolved.
func (d *libraryDiscoverer) Variants() ([]Variant, error) {
	names, err := variantNames(filepath.Join(d.projectDir, "build", "intermediates", "merged_native_libs"))
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, 0, len(names))
	for _, name := range names {
		libs, err := nativeLibs(d.projectDir, name)
		if err != nil {
			return nil, err
		}

		variants = append(variants, Variant{Name: name, Kind: KindLibrary, NativeLibs: libs})
	}

	return variants, nil
}

// variantNames lists the subdirectories of dir, sorted for stable
// processing order. A missing dir means no variants, not an error.
func variantNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read variant directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

// nativeLibs globs the merged native libraries of one variant across
// all ABIs.
func nativeLibs(projectDir, name string) ([]string, error) {
	pattern := filepath.Join(projectDir, "build", "intermediates", "merged_native_libs", name, "out", "lib", "*", "*.so")

	libs, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob native libs: %w", err)
	}

	sort.Strings(libs)

	return libs, nil
}
