package main

import "github.com/futurewallet/wallet/internal/cli"

func main() {
	cli.Execute()
}
