package main

import "github.com/hengjingzhu/remote-mcp-gateway/cmd"

// Version can be set during build with -ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
