//go:build !libpostal

package main

import (
	"errors"

	"github.com/tablefill/internal/decompose"
)

var errNoPostal = errors.New("--postal needs a build with the libpostal tag")

func postalSplitter() (decompose.Splitter, error) {
	return nil, errNoPostal
}
