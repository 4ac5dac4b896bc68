// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package js

import (
	"strings"

	"github.com/dchest/assethat/utils"
)

// Weak is a barebones minifier which removes leading and trailing
// whitespace of each line, blank lines, and lines consisting only
// of a one-line comment.
//
// Only ASCII whitespace is trimmed; a line is blank if it has nothing
// but Unicode whitespace. Comments that begin mid-line and /* */
// comments are left as is: they can't be detected without knowing
// where strings and regular expressions are.
func Weak(input string) string {
	var out strings.Builder
	for _, line := range strings.Split(input, "\n") {
		line = utils.TrimASCIISpace(line)
		if utils.IsBlank(line) || strings.HasPrefix(line, "//") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return utils.TrimASCIISpace(out.String())
}
