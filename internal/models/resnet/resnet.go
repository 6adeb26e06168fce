// Package resnet provides the ResNet family specification.
package resnet

import "github.com/tsingmaoai/xw-tune/internal/models"

// Family is the ResNet backbone as exposed by torchvision.
//
// ResNet-34 and ResNet-50 differ in the internal structure of layer1..layer4
// (basic vs. bottleneck blocks) but expose the same top-level units, so one
// table serves both depths.
var Family = &models.Family{
	ID:          models.FamilyResNet,
	DisplayName: "ResNet",
	Description: "Residual networks, stem followed by four residual stages",
	Variants:    []string{"34", "50"},
	Head:        "fc",
	Layers: models.MustLayerTable(models.FamilyResNet,
		models.LayerEntry{Name: "conv1", Index: 0, Kind: models.KindConv},
		models.LayerEntry{Name: "bn1", Index: 1, Kind: models.KindNorm},
		models.LayerEntry{Name: "relu", Index: 2, Kind: models.KindActivation},
		models.LayerEntry{Name: "maxpool", Index: 3, Kind: models.KindPooling},
		models.LayerEntry{Name: "layer1", Index: 4, Kind: models.KindBlock},
		models.LayerEntry{Name: "layer2", Index: 5, Kind: models.KindBlock},
		models.LayerEntry{Name: "layer3", Index: 6, Kind: models.KindBlock},
		models.LayerEntry{Name: "layer4", Index: 7, Kind: models.KindBlock},
	),
}

func init() {
	models.Register(Family)
}
