package main

import "github.com/diogo/tutorchat/internal/commands"

func main() {
	commands.Execute()
}
