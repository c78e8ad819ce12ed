// Package process terminates the headless browser and every helper process it
// spawned once a render finishes.
package process
