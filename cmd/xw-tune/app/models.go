package app

// Import family packages to ensure they are registered
// This must be in the app package to avoid import cycles
import (
	_ "github.com/tsingmaoai/xw-tune/internal/models/densenet"  // Register DenseNet
	_ "github.com/tsingmaoai/xw-tune/internal/models/googlenet" // Register GoogLeNet
	_ "github.com/tsingmaoai/xw-tune/internal/models/resnet"    // Register ResNet
)
