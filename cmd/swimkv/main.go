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
package main

import (
	"context"

	"github.com/swimkv/swimkv/cmd/swimkv/cmd"
	"github.com/swimkv/swimkv/utils/log"
)

func main() {
	flags := cmd.ParseFlags()

	app, err := cmd.NewApp(flags)
	if err != nil {
		log.Fatalf("failed to initialize swimkv driver: %s", err)
	}
	defer app.Close()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("simulation failed: %s", err)
	}
}
