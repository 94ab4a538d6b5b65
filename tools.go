//go:build tools

// Package mcuwatch pins the code generators used by go:generate.
package mcuwatch

import (
	_ "go.uber.org/mock/mockgen"
)
