//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "notecard"
	versionVar = "codeberg.org/snonux/notecard/internal.Version"
	serviceVar = "codeberg.org/snonux/notecard/internal.ServiceBasePath"
)

// Default target to run when none is specified
var Default = Build

// ldflags injects the version and, if NOTECARD_BASE_PATH is set, the
// vocabulary service base path
func ldflags() string {
	flags := "-s -w"
	if version := os.Getenv("NOTECARD_VERSION"); version != "" {
		flags += fmt.Sprintf(" -X %s=%s", versionVar, version)
	}
	if base := os.Getenv("NOTECARD_BASE_PATH"); base != "" {
		flags += fmt.Sprintf(" -X %s=%s", serviceVar, base)
	}
	return flags
}

// Build compiles the notecard binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/notecard")
}

// Install installs notecard into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/notecard")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
