// Copyright © 2026 The futurec authors

package main

import "github.com/futurec/futurec/cmd"

func main() {
	cmd.Execute()
}
