// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package internal holds the shared app bootstrap glue.
package internal

import (
	"context"
	"fmt"

	"github.com/z5labs/bedrock"
	"github.com/z5labs/bedrock/config"
)

// Run builds an app from its config source and drives it to completion.
func Run(ctx context.Context, src config.Source, builder bedrock.AppBuilder[config.Source]) error {
	app, err := builder.Build(ctx, src)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	return app.Run(ctx)
}
