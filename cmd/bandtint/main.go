// bandtint personalizes the colour theme and Me Tile image of a wearable band.
package main

import "github.com/jmylchreest/bandtint/internal/cli"

func main() {
	cli.Execute()
}
