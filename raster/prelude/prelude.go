// Package prelude registers every raster backend; import it for side effects.
package prelude

import (
	_ "github.com/ByLCY/mondrian/raster/canvas"
	_ "github.com/ByLCY/mondrian/raster/oksvg"
)
