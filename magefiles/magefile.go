//go:build mage

// Package main provides build targets for the reuse project using Mage.
//
// Usage:
//
//	mage build          Compile reuse binary to bin/
//	mage test           Run all tests
//	mage testRace       Run all tests with the race detector
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install reuse to GOPATH/bin
//	mage seed           Build, then seed the snapshot with defaults
//	mage stats          Print record counts of the snapshot file
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/mesh-intelligence/reuse/internal/store"
	"github.com/mesh-intelligence/reuse/pkg/types"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "reuse"
	binaryDir  = "bin"
	cmdDir     = "./cmd/reuse"
)

// Build compiles the reuse binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestRace runs all tests with the race detector.
func TestRace() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Seed builds the binary and runs "reuse init" against the snapshot named
// by REUSE_DB_FILE, or ./database.json.
func Seed() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "init", "--db-file", snapshotPath())
}

// Stats prints record counts of the snapshot file.
func Stats() error {
	path := snapshotPath()
	if _, err := os.Stat(path); err != nil {
		return err
	}
	snap := store.Open(types.Config{DBFile: path}).Snapshot()

	pending := 0
	for _, u := range snap.Users {
		if !u.IsApproved {
			pending++
		}
	}
	perType := make(map[string]int)
	for _, it := range snap.Items {
		perType[it.ItemType]++
	}

	fmt.Printf("Snapshot:          %s\n", path)
	fmt.Printf("Users:             %d (%d pending)\n", len(snap.Users), pending)
	fmt.Printf("Item types:        %d\n", len(snap.ItemTypes))
	fmt.Printf("Items:             %d\n", len(snap.Items))
	for _, t := range snap.ItemTypes {
		fmt.Printf("  %-16s %d\n", t.Name, perType[t.Name])
	}
	return nil
}

func snapshotPath() string {
	if p := os.Getenv("REUSE_DB_FILE"); p != "" {
		return p
	}
	return types.DefaultDBFile
}
