// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package js

// `jsmin` is Crockford's JSMin.

import (
	"fmt"
	"strings"

	"github.com/dchest/jsmin"
)

// JSMin minifies input with JSMin.
func JSMin(input string) (string, error) {
	out, err := jsmin.Minify([]byte(input + "\n"))
	if err != nil {
		return "", fmt.Errorf("jsmin: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
