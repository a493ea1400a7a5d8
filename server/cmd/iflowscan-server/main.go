package main

import "gitlab.com/shar-workflow/iflowscan/server/commands"

func main() {
	commands.Execute()
}
