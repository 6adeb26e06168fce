// Package googlenet provides the GoogLeNet (Inception v1) family specification.
package googlenet

import "github.com/tsingmaoai/xw-tune/internal/models"

// Family is GoogLeNet without its auxiliary classifiers.
//
// conv1..conv3 are BasicConv2d units (convolution + batch norm), so they
// are classed as conv layers.
var Family = &models.Family{
	ID:          models.FamilyGoogLeNet,
	DisplayName: "GoogLeNet",
	Description: "Inception v1 with nine inception modules",
	Head:        "fc",
	Layers: models.MustLayerTable(models.FamilyGoogLeNet,
		models.LayerEntry{Name: "conv1", Index: 0, Kind: models.KindConv},
		models.LayerEntry{Name: "maxpool1", Index: 1, Kind: models.KindPooling},
		models.LayerEntry{Name: "conv2", Index: 2, Kind: models.KindConv},
		models.LayerEntry{Name: "conv3", Index: 3, Kind: models.KindConv},
		models.LayerEntry{Name: "maxpool2", Index: 4, Kind: models.KindPooling},
		models.LayerEntry{Name: "inception3a", Index: 5, Kind: models.KindInception},
		models.LayerEntry{Name: "inception3b", Index: 6, Kind: models.KindInception},
		models.LayerEntry{Name: "maxpool3", Index: 7, Kind: models.KindPooling},
		models.LayerEntry{Name: "inception4a", Index: 8, Kind: models.KindInception},
		models.LayerEntry{Name: "inception4b", Index: 9, Kind: models.KindInception},
		models.LayerEntry{Name: "inception4c", Index: 10, Kind: models.KindInception},
		models.LayerEntry{Name: "inception4d", Index: 11, Kind: models.KindInception},
		models.LayerEntry{Name: "inception4e", Index: 12, Kind: models.KindInception},
		models.LayerEntry{Name: "maxpool4", Index: 13, Kind: models.KindPooling},
		models.LayerEntry{Name: "inception5a", Index: 14, Kind: models.KindInception},
		models.LayerEntry{Name: "inception5b", Index: 15, Kind: models.KindInception},
	),
}

func init() {
	models.Register(Family)
}
