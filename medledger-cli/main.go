package main

import "medledger/medledger-cli/cmd"

func main() {
	cmd.Execute()
}
