// Package checker performs a single status poll and prints the result.
package checker
