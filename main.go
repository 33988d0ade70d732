package main

import "github.com/ovesterberg/azure-price-report/cmd"

func main() {
	cmd.Execute()
}
