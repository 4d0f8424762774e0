package main

import "github.com/cratedoctor/cratedoctor/cmd"

func main() {
	cmd.Execute()
}
