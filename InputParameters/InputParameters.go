package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InterpolationParameters struct {
	Title       string             `yaml:"Title"`
	ElementType string             `yaml:"ElementType"` // RT0 or BDM2
	MeshType    string             `yaml:"MeshType"`    // Cartesian or Delaunay
	MeshSize    int                `yaml:"MeshSize"`    // cells per side for Cartesian, point count for Delaunay
	FieldType   string             `yaml:"FieldType"`   // Uniform, Radial or Vortex
	FieldParams map[string]float64 `yaml:"FieldParams"` // e.g. Ax/Ay for Uniform, Cx/Cy for Radial and Vortex
	EvalPoints  [][2]float64       `yaml:"EvalPoints"`  // physical points to evaluate the interpolant at
}

func (ip *InterpolationParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InterpolationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Element Type\n", ip.ElementType)
	fmt.Printf("[%s]\t\t= Mesh Type\n", ip.MeshType)
	fmt.Printf("[%d]\t\t\t\t= Mesh Size\n", ip.MeshSize)
	fmt.Printf("[%s]\t\t= Field Type\n", ip.FieldType)
	keys := make([]string, len(ip.FieldParams))
	i := 0
	for k := range ip.FieldParams {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("FieldParams[%s] = %v\n", key, ip.FieldParams[key])
	}
	fmt.Printf("%d evaluation points\n", len(ip.EvalPoints))
}

// Param reads a field parameter with a default when absent
func (ip *InterpolationParameters) Param(name string, def float64) float64 {
	if v, ok := ip.FieldParams[name]; ok {
		return v
	}
	return def
}
