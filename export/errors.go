// SPDX-License-Identifier: EPL-2.0

package export

import "errors"

// ErrExportFailure wraps every serialization or delivery failure.
var ErrExportFailure = errors.New("export failed")
