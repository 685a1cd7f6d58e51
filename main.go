package main

import (
	"github.com/ankibridge/ankibridge/cmd"
)

func main() {
	cmd.Execute()
}
