// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package configutil loads and validates YAML configuration files, with
// support for layering a base config file and a secrets file, and for a
// single config file "extends" another as its base.
package configutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ErrCycleRef is returned when a chain of "extends" references cycles back
// on itself.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

type extendsStub struct {
	Extends string `yaml:"extends"`
}

// ValidationError wraps the per-field errors returned by validator.v2.
type ValidationError struct {
	errs validator.ErrorMap
}

// Error implements error.
func (v ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s", v.errs)
}

// ErrForField returns the validation errors attached to a specific field
// name, or nil if that field passed validation.
func (v ValidationError) ErrForField(field string) validator.ErrorArray {
	return v.errs[field]
}

// Load reads the YAML file at path into config, validating the result.
// Load may be called more than once against the same config value (e.g.
// once for a base file, once for a secrets overlay) — later calls only
// override fields present in the later file.
func Load(path string, config interface{}) error {
	chain, err := resolveExtendsChain(path)
	if err != nil {
		return err
	}
	return loadFiles(config, chain)
}

func resolveExtendsChain(path string) ([]string, error) {
	chain, err := resolveExtends(path, readExtends)
	if err != nil {
		return nil, err
	}
	if chain == nil {
		return []string{path}, nil
	}
	return chain, nil
}

func readExtends(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", nil
	}
	var stub extendsStub
	if err := yaml.Unmarshal(b, &stub); err != nil {
		return "", nil
	}
	return stub.Extends, nil
}

// resolveExtends walks the "extends" chain starting at fpath, resolving
// relative references against fpath's directory, and returns the chain in
// base-first order (the file to load first is index 0). A cycle returns
// ErrCycleRef.
func resolveExtends(fpath string, lookup func(string) (string, error)) ([]string, error) {
	visited := map[string]bool{fpath: true}
	chain := []string{fpath}

	cur := fpath
	for {
		target, err := lookup(cur)
		if err != nil {
			return nil, err
		}
		if target == "" {
			break
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(cur), target)
		}
		if visited[target] {
			return nil, ErrCycleRef
		}
		visited[target] = true
		chain = append(chain, target)
		cur = target
	}

	// Reverse so the base-most file loads first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// loadFiles merges each file in paths into config in order, then validates
// once at the end so an earlier partial file doesn't need to pass
// validation on its own.
func loadFiles(config interface{}, paths []string) error {
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("configutil: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, config); err != nil {
			return fmt.Errorf("configutil: parse %s: %w", path, err)
		}
	}
	if errs := validator.Validate(config); errs != nil {
		if errMap, ok := errs.(validator.ErrorMap); ok {
			return ValidationError{errs: errMap}
		}
		return errs
	}
	return nil
}
