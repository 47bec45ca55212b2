package main

import "github.com/cr8s/cr8sapi/cmd/cr8sapi/cmd"

func main() {
	cmd.Execute()
}
