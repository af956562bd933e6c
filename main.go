package main

import "whooshsync/cmd"

func main() {
	cmd.Execute()
}
