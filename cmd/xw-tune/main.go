// Package main is the entry point for the xw-tune CLI application.
//
// xw-tune checks transfer-learning configurations for pretrained CNN
// backbones (ResNet, DenseNet, GoogLeNet): which backbone layers are
// unfrozen, how wide the classifier head is, and how a recorded training
// run would have been early-stopped.
//
// Usage:
//
//	xw-tune [command] [flags]
//
// Available commands:
//
//	families - List architecture families
//	layers   - Show the layer index table of a family
//	plan     - Build a fine-tune plan
//	validate - Validate a fine-tune configuration file
//	history  - Replay early stopping over a training history
//	config   - Manage settings
//	version  - Display version information
package main

import (
	"os"

	"github.com/tsingmaoai/xw-tune/cmd/xw-tune/app"
)

func main() {
	cmd := app.NewXWTuneCommand()
	if err := cmd.Execute(); err != nil {
		// Error is already printed by cobra, just exit
		os.Exit(1)
	}
}
