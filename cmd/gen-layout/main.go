/*
 * gen-layout re-arranges a mind-map tree. The tree is read as a list of items
 * (json or yaml) from a file or stdin, or loaded from the database.
 */
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
