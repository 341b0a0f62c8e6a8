// Package main provides the flowgrant CLI for requesting runtime grants.
package main

func main() {
	Execute()
}
