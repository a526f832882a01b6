package vox

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Material types
const (
	MaterialDiffuse = "_diffuse"
	MaterialMetal   = "_metal"
	MaterialGlass   = "_glass"
	MaterialBlend   = "_blend"
	MaterialMedia   = "_media"
	MaterialEmit    = "_emit"
)

var (
	defaultRoughness = decimal.RequireFromString("0.1")
	roughnessScale   = decimal.RequireFromString("0.5")
	defaultIOR       = decimal.RequireFromString("1.3")
)

// Material holds the rendering properties of one palette entry
type Material struct {
	ID   int
	Type string
	// MagicaVoxel roughness scaled by 0.5, its maximum roughly matches 0.5 of a physically based renderer
	Roughness decimal.Decimal
	// only set for metal and blend materials
	Metallic decimal.Decimal
	// index of refraction, the "_ri" property
	IOR          decimal.Decimal
	Emission     decimal.Decimal
	Transparency decimal.Decimal
	Properties   Dict
}

// DefaultMaterial returns the material of a palette entry without MATL chunk
func DefaultMaterial(id int) Material {
	m, _ := NewMaterial(id, Dict{})
	return m
}

// Builds a material from the properties of a MATL chunk
func NewMaterial(id int, props Dict) (Material, error) {
	m := Material{
		ID:         id,
		Type:       props["_type"],
		Properties: props,
	}
	if m.Type == "" {
		m.Type = MaterialDiffuse
	}

	var err error
	if m.Roughness, err = property(props, "_rough", defaultRoughness); err != nil {
		return Material{}, err
	}
	m.Roughness = m.Roughness.Mul(roughnessScale)

	if m.Type == MaterialMetal || m.Type == MaterialBlend {
		if m.Metallic, err = property(props, "_metal", decimal.Zero); err != nil {
			return Material{}, err
		}
	}
	if m.IOR, err = property(props, "_ri", defaultIOR); err != nil {
		return Material{}, err
	}
	if m.Emission, err = property(props, "_emit", decimal.Zero); err != nil {
		return Material{}, err
	}

	transparencyKey := "_trans"
	if _, ok := props[transparencyKey]; !ok {
		transparencyKey = "_alpha"
	}
	if m.Transparency, err = property(props, transparencyKey, decimal.Zero); err != nil {
		return Material{}, err
	}
	return m, nil
}

func property(props Dict, key string, def decimal.Decimal) (decimal.Decimal, error) {
	value, ok := props[key]
	if !ok {
		return def, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("material property %s=%q: %w", key, value, err)
	}
	return d, nil
}

// IsEmissive returns true for emit materials with a positive emission
func (m Material) IsEmissive() bool {
	return m.Type == MaterialEmit && m.Emission.IsPositive()
}

// legacy MATT material types, by index
var legacyMaterialTypes = [4]string{MaterialDiffuse, MaterialMetal, MaterialGlass, MaterialEmit}

// legacy MATT property names, by bit of the property mask
var legacyPropertyKeys = [8]string{"_plastic", "_rough", "_spec", "_ior", "_att", "_power", "_glow", "_isTotalPower"}

// Builds the properties of a legacy MATT chunk. Every set bit of the mask but the last is followed by a
// float value, the last bit carries no value.
func legacyProperties(materialType int, weight float32, mask int, values []float32) Dict {
	props := Dict{
		"_weight": decimal.NewFromFloat32(weight).String(),
	}
	if materialType >= 0 && materialType < len(legacyMaterialTypes) {
		props["_type"] = legacyMaterialTypes[materialType]
	} else {
		props["_type"] = legacyMaterialTypes[0]
	}
	next := 0
	for bit, key := range legacyPropertyKeys {
		if mask&(1<<bit) == 0 {
			continue
		}
		if bit == 7 {
			props[key] = "1"
			continue
		}
		if next < len(values) {
			props[key] = decimal.NewFromFloat32(values[next]).String()
			next++
		}
	}
	return props
}

// number of float values following the property mask of a MATT chunk
func legacyValueCount(mask int) int {
	n := 0
	for bit := 0; bit < 7; bit++ {
		if mask&(1<<bit) != 0 {
			n++
		}
	}
	return n
}
