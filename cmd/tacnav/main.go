// Command tacnav simulates scenarios and solves assignments from the shell.
package main

import "github.com/elektrokombinacija/tacnav/internal/cli"

func main() {
	cli.Execute()
}
