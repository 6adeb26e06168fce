// Package densenet provides the DenseNet family specification.
package densenet

import "github.com/tsingmaoai/xw-tune/internal/models"

// Family is the DenseNet feature extractor ("features" module in
// torchvision). Each dense block is followed by a transition except the
// last one.
var Family = &models.Family{
	ID:          models.FamilyDenseNet,
	DisplayName: "DenseNet",
	Description: "Densely connected networks with four dense blocks",
	Variants:    []string{"121", "161", "169", "201"},
	Head:        "classifier",
	Layers: models.MustLayerTable(models.FamilyDenseNet,
		models.LayerEntry{Name: "conv0", Index: 0, Kind: models.KindConv},
		models.LayerEntry{Name: "norm0", Index: 1, Kind: models.KindNorm},
		models.LayerEntry{Name: "relu0", Index: 2, Kind: models.KindActivation},
		models.LayerEntry{Name: "pool0", Index: 3, Kind: models.KindPooling},
		models.LayerEntry{Name: "denseblock1", Index: 4, Kind: models.KindBlock},
		models.LayerEntry{Name: "transition1", Index: 5, Kind: models.KindTransition},
		models.LayerEntry{Name: "denseblock2", Index: 6, Kind: models.KindBlock},
		models.LayerEntry{Name: "transition2", Index: 7, Kind: models.KindTransition},
		models.LayerEntry{Name: "denseblock3", Index: 8, Kind: models.KindBlock},
		models.LayerEntry{Name: "transition3", Index: 9, Kind: models.KindTransition},
		models.LayerEntry{Name: "denseblock4", Index: 10, Kind: models.KindBlock},
	),
}

func init() {
	models.Register(Family)
}
