package main

import "github.com/panyam/hclexpr/cmd/hclparse/commands"

func main() {
	commands.Execute()
}
