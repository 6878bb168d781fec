package main

import "github.com/restoredcdc/warcserve/apps/warcserve/cmd"

func main() {
	cmd.Execute()
}
