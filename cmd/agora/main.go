package main

import (
	"agora.network/agora/cmd/agora/cmd"
)

func main() {
	cmd.Execute()
}
