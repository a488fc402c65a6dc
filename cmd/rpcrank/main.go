package main

import "rpcrank/cmd/rpcrank/cmd"

func main() {
	cmd.Execute()
}
