package service

import (
	"alertdesk/internal/models"
)

// AvailableChildren filters a dependent-select option list down to the
// children owned by the selected parent. Every cascade call site (create,
// edit, bulk edit) goes through this one function.
func AvailableChildren[T any](parentID string, children []T, parentIDOf func(T) string) []T {
	if parentID == "" {
		return nil
	}
	out := make([]T, 0, len(children))
	for _, child := range children {
		if parentIDOf(child) == parentID {
			out = append(out, child)
		}
	}
	return out
}

func AvailableMakes(plantTypeID string, makes []models.PlantMake) []models.PlantMake {
	return AvailableChildren(plantTypeID, makes, func(m models.PlantMake) string { return m.PlantTypeID })
}

func AvailableModels(plantMakeID string, mods []models.PlantModel) []models.PlantModel {
	return AvailableChildren(plantMakeID, mods, func(m models.PlantModel) string { return m.PlantMakeID })
}

// NormalizePlantSelection enforces the type -> make -> model chain on one
// alert's selections. A make that no longer belongs to the selected type
// clears both make and model in the same pass; a model that no longer belongs
// to the (possibly just-cleared) make clears only itself. Returns the
// normalized selections plus the names of the fields that were cleared.
func NormalizePlantSelection(typeID, makeID, modelID *string, makes []models.PlantMake, mods []models.PlantModel) (*string, *string, []string) {
	var cleared []string

	if makeID != nil {
		owned := false
		if typeID != nil {
			for _, m := range AvailableMakes(*typeID, makes) {
				if m.ID == *makeID {
					owned = true
					break
				}
			}
		}
		if !owned {
			makeID = nil
			cleared = append(cleared, "plant_make_id")
		}
	}

	if modelID != nil {
		owned := false
		if makeID != nil {
			for _, m := range AvailableModels(*makeID, mods) {
				if m.ID == *modelID {
					owned = true
					break
				}
			}
		}
		if !owned {
			modelID = nil
			cleared = append(cleared, "plant_model_id")
		}
	}

	return makeID, modelID, cleared
}
