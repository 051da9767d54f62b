package main

import "github.com/quartzlab/tephra/cmd"

func main() {
	cmd.Execute()
}
