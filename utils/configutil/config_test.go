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
package configutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/validator.v2"
)

type testConfig struct {
	TFail   int      `yaml:"tfail" validate:"min=1"`
	Fanout  int      `yaml:"fanout" validate:"nonzero"`
	Seeds   []string `yaml:"seeds" validate:"nonzero"`
}

func writeTempFile(t *testing.T, contents string) string {
	f, err := os.CreateTemp("", "swimkv-config")
	require.NoError(t, err)
	_, err = f.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLoadValid(t *testing.T) {
	require := require.New(t)

	path := writeTempFile(t, "tfail: 3\nfanout: 3\nseeds:\n  - 1.0.0.1:0\n")
	defer os.Remove(path)

	var cfg testConfig
	require.NoError(Load(path, &cfg))
	require.Equal(3, cfg.TFail)
	require.Equal(3, cfg.Fanout)
	require.Equal([]string{"1.0.0.1:0"}, cfg.Seeds)
}

func TestLoadInvalid(t *testing.T) {
	require := require.New(t)

	path := writeTempFile(t, "tfail: 0\nfanout: 0\n")
	defer os.Remove(path)

	var cfg testConfig
	err := Load(path, &cfg)
	require.Error(err)

	verr, ok := err.(ValidationError)
	require.True(ok)
	require.Equal(validator.ErrorArray{validator.ErrMin}, verr.ErrForField("TFail"))
	require.Equal(validator.ErrorArray{validator.ErrZeroValue}, verr.ErrForField("Fanout"))
}

func TestLoadMissingFile(t *testing.T) {
	require := require.New(t)

	var cfg testConfig
	require.Error(Load("./does-not-exist.yaml", &cfg))
}

func TestLoadExtends(t *testing.T) {
	require := require.New(t)

	base := writeTempFile(t, "tfail: 3\nfanout: 3\nseeds:\n  - 1.0.0.1:0\n")
	defer os.Remove(base)

	overlay := writeTempFile(t, fmt.Sprintf("extends: %s\nfanout: 5\n", filepath.Base(base)))
	defer os.Remove(overlay)

	var cfg testConfig
	require.NoError(Load(overlay, &cfg))
	require.Equal(3, cfg.TFail)
	require.Equal(5, cfg.Fanout)
	require.Equal([]string{"1.0.0.1:0"}, cfg.Seeds)
}

func TestLoadExtendsCycle(t *testing.T) {
	require := require.New(t)

	f1, err := os.CreateTemp("", "swimkv-config")
	require.NoError(err)
	f2, err := os.CreateTemp("", "swimkv-config")
	require.NoError(err)
	defer os.Remove(f1.Name())
	defer os.Remove(f2.Name())

	_, err = f1.WriteString(fmt.Sprintf("extends: %s\ntfail: 3\n", filepath.Base(f2.Name())))
	require.NoError(err)
	require.NoError(f1.Close())

	_, err = f2.WriteString(fmt.Sprintf("extends: %s\nfanout: 3\n", filepath.Base(f1.Name())))
	require.NoError(err)
	require.NoError(f2.Close())

	var cfg testConfig
	err = Load(f1.Name(), &cfg)
	require.Error(err)
	require.Contains(err.Error(), "cyclic reference")
}

func TestLoadSecretsOverlay(t *testing.T) {
	require := require.New(t)

	base := writeTempFile(t, "tfail: 3\nfanout: 3\nseeds:\n  - 1.0.0.1:0\n")
	defer os.Remove(base)
	secrets := writeTempFile(t, "tfail: 10\n")
	defer os.Remove(secrets)

	var cfg testConfig
	require.NoError(Load(base, &cfg))
	require.NoError(Load(secrets, &cfg))
	require.Equal(10, cfg.TFail)
	require.Equal(3, cfg.Fanout)
}
