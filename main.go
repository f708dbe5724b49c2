package main

import "github.com/lepinkainen/bookrank/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
