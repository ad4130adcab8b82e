// package main provides the entry point for the scec-cli client
package main

import "github.com/ortelius/scec-catalog/cmd"

func main() {
	cmd.Execute()
}
