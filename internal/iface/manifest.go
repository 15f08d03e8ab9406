package iface

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/checker"
)

// Manifest describes where to find the interfaces of a module's
// dependencies. Paths are relative to the manifest file. A typical
// manifest looks like:
//
//	modules:
//	  Data.Stuff: build/Data.Stuff.iface.json
//	packages:
//	  some-pkg:
//	    Other.Module: deps/some-pkg/Other.Module.iface.json
type Manifest struct {
	Modules  map[string]string            `yaml:"modules"`
	Packages map[string]map[string]string `yaml:"packages"`
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// LoadEnvironment reads a manifest and every interface it references,
// producing the checker's import environment.
func LoadEnvironment(manifestPath string) (*checker.Environment, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(manifestPath)

	environment := checker.NewEnvironment()
	for moduleName, ifacePath := range manifest.Modules {
		exports, err := loadExports(baseDir, ifacePath)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", moduleName, err)
		}
		environment.Modules[moduleName] = exports
	}
	for packageName, modules := range manifest.Packages {
		packageModules := make(map[string]ast.ModuleExports, len(modules))
		for moduleName, ifacePath := range modules {
			exports, err := loadExports(baseDir, ifacePath)
			if err != nil {
				return nil, fmt.Errorf("package %s, module %s: %w", packageName, moduleName, err)
			}
			packageModules[moduleName] = exports
		}
		environment.Packages[ast.NewPackageName(packageName)] = packageModules
	}
	return environment, nil
}

func loadExports(baseDir, ifacePath string) (ast.ModuleExports, error) {
	if !filepath.IsAbs(ifacePath) {
		ifacePath = filepath.Join(baseDir, ifacePath)
	}
	data, err := os.ReadFile(ifacePath)
	if err != nil {
		return ast.ModuleExports{}, err
	}
	var decoded *Interface
	if strings.HasSuffix(ifacePath, ".bin") {
		decoded, err = DecodeBinary(data)
	} else {
		decoded, err = Decode(data)
	}
	if err != nil {
		return ast.ModuleExports{}, err
	}
	return decoded.Exports()
}
