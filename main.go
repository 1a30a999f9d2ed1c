package main

import "athlete-connect-backend/cmd"

func main() {
	cmd.Run()
}
