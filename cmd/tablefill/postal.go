//go:build libpostal

package main

import (
	"github.com/tablefill/internal/decompose"
)

func postalSplitter() (decompose.Splitter, error) {
	return decompose.NewPostalSplitter(), nil
}
