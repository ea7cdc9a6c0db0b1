/*
Copyright © 2026 the confined shelf authors.
This file is part of shelf.

shelf is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

shelf is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with shelf.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command confinedshelf sets up and runs the Confined Shelf ice-sheet
// model experiment.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/shelf/shelfutil"
)

func main() {
	if err := shelfutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
