package main

import "gitlab.com/shar-workflow/iflowscan/cli/commands"

func main() {
	commands.Execute()
}
