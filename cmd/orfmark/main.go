package main

import (
	"orfmark/internal/appshell"
	"orfmark/internal/cli"
)

func main() { appshell.Main(cli.Run) }
