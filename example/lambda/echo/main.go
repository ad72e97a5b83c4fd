// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	_ "embed"

	"github.com/prosepilot/restbridge/example/lambda/echo/app"
	"github.com/prosepilot/restbridge/lambda"
)

//go:embed config.yaml
var configBytes []byte

func main() {
	lambda.Run(bytes.NewReader(configBytes), app.Init)
}
