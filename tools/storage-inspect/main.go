package main

import (
	"os"

	"github.com/iotaledger/chainstore/pkg/toolset"
)

func main() {
	toolset.HandleTools(os.Args[1:])
}
