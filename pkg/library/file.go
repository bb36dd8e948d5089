/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package library

import (
	"context"
	"log/slog"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

// FileSource reads a Library document (YAML or JSON, by extension) from Path.
// The steamID argument of OwnedGames is ignored.
type FileSource struct {
	Path string
}

// OwnedGames implements Source.
func (f *FileSource) OwnedGames(ctx context.Context, _ string) ([]OwnedGame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lib Library
	if err := serializer.ReadFile(f.Path, &lib); err != nil {
		return nil, pferrors.WrapWithContext(pferrors.ErrCodeDataFormat, "failed to read library file", err,
			map[string]any{"path": f.Path})
	}
	if err := Validate(lib.Games); err != nil {
		return nil, err
	}

	slog.Debug("loaded library from file",
		slog.String("path", f.Path),
		slog.Int("games", len(lib.Games)))
	return lib.Games, nil
}
