// SPDX-License-Identifier: EPL-2.0

package export

import (
	"path/filepath"
	"strings"
)

// SourcePlaceholder in a naming template is replaced by the source file name
// without directory and extension.
const SourcePlaceholder = "{source}"

// TemplateNaming names artifacts after tmpl, substituting
// SourcePlaceholder. A ".wav" extension is added when missing. An empty
// template keeps DefaultFilename.
func TemplateNaming(tmpl string) NamingFunc {
	return func(source string) string {
		if tmpl == "" {
			return ""
		}

		base := filepath.Base(source)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if base == "." || base == string(filepath.Separator) {
			base = ""
		}

		name := strings.ReplaceAll(tmpl, SourcePlaceholder, base)
		if strings.TrimSpace(name) == "" {
			return ""
		}
		name = filepath.Base(name)
		if !strings.EqualFold(filepath.Ext(name), ".wav") {
			name += ".wav"
		}
		return name
	}
}
