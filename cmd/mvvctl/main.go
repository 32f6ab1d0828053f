// Command mvvctl performs one-off administration tasks against the
// MyVesaVote database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
