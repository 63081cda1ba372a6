package main

import "github.com/avelar/chatdeck/internal/commands"

func main() {
	commands.Execute()
}
