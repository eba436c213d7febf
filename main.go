package main

import "campus-connect-backend/cmd"

func main() {
	cmd.Run()
}
