package main

import (
	_ "embed"

	"github.com/kanbanstr/board-sync-service/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
