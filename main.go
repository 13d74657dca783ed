package main

import "github.com/aprayoga/storefront/cmd"

func main() {
	cmd.Start()
}
