// package main is the entry point for the scec-purl CLI
package main

import "github.com/ortelius/scec-purl/cmd"

func main() {
	cmd.Execute()
}
