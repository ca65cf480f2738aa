// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of omnizip.
//
// omnizip is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// omnizip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with omnizip.  If not, see <https://www.gnu.org/licenses/>.

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// sidecarExtensions are file extensions for auxiliary archive members that
// are never the primary payload: readmes, diz/nfo release notes, and
// checksum sidecars.
var sidecarExtensions = map[string]bool{
	".txt": true,
	".nfo": true,
	".diz": true,
	".sfv": true,
	".md5": true,
}

// IsPayloadFile reports whether filename is a candidate primary payload
// member rather than a sidecar file.
func IsPayloadFile(filename string) bool {
	if filename == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return !sidecarExtensions[ext]
}

// DetectPayloadFile scans an archive's file list and returns the path of
// the first member that isn't a recognized sidecar, for callers that want
// to hand a single "main" file to the compression core without the
// caller enumerating the archive itself.
func DetectPayloadFile(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	for _, file := range files {
		if IsPayloadFile(file.Name) {
			return file.Name, nil
		}
	}

	return "", NoPayloadFilesError{Archive: "archive"}
}
