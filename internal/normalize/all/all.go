// Package all registers every source adapter. Import for side effects from
// binaries that need the full adapter set.
package all

import (
	_ "github.com/mbelyaev/betfeed/internal/normalize/crabsports"
	_ "github.com/mbelyaev/betfeed/internal/normalize/pinnacle"
)
