// Copyright (c) 2026 Mesh Intelligence. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Package main provides build targets for the gpkg library using Mage.
//
// Usage:
//
//	mage build    Compile all packages
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage vet      Run go vet
//	mage clean    Remove build and test artifacts
package main

import (
	"github.com/magefile/mage/sh"
)

const binGo = "go"

// Build compiles every package.
func Build() error {
	return sh.RunV(binGo, "build", "./...")
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Clean removes build and test artifacts.
func Clean() error {
	return sh.RunV(binGo, "clean", "-testcache")
}
