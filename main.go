package main

import "github.com/deploymenttheory/go-erofs/cmd"

func main() {
	cmd.Execute()
}
