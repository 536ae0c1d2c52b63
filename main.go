// main.go
//
// Entry point; the cobra commands live in cmd/root.go

package main

import (
	"github.com/queue-sim/queue-sim/cmd"
)

func main() {
	cmd.Execute()
}
