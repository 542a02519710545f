package dither

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownMethod = errors.New("unknown dither method")
	ErrInvalidKernel = errors.New("invalid diffusion kernel")
)

// DefaultMethod is used when no method is selected.
const DefaultMethod = "floyd"

// Method is one of None, Ordered or Diffusion.
type Method interface {
	Name() string
	validate() error
	run(src *Pixels, dst *Output, lookup lookupFunc)
}

// None maps every pixel to its nearest palette color.
type None struct{}

func (None) Name() string { return "none" }

func (None) validate() error { return nil }

// Ordered perturbs every pixel by a position dependent threshold before
// the lookup. Pixels are independent of each other.
type Ordered struct {
	name      string
	threshold threshold
}

func (m Ordered) Name() string { return m.name }

func (m Ordered) validate() error {
	if m.threshold == nil {
		return fmt.Errorf("%w: ordered method %q has no threshold matrix", ErrUnknownMethod, m.name)
	}
	return nil
}

// Diffusion pushes the quantization error of every pixel onto its
// unvisited neighbors.
type Diffusion struct {
	name   string
	Kernel Kernel
}

func (m Diffusion) Name() string { return m.name }

func (m Diffusion) validate() error {
	if err := m.Kernel.validate(); err != nil {
		return fmt.Errorf("%s: %w", m.name, err)
	}
	return nil
}

// NewDiffusion builds an error diffusion method out of a custom kernel.
func NewDiffusion(name string, k Kernel) (Diffusion, error) {
	m := Diffusion{name: name, Kernel: k}
	if err := m.validate(); err != nil {
		return Diffusion{}, err
	}
	return m, nil
}

var (
	Bayer8x8       = Ordered{name: "ordered", threshold: bayerThreshold}
	Matrix4x4      = Ordered{name: "bayer", threshold: matrixThreshold}
	FloydSteinberg = Diffusion{name: "floyd", Kernel: floydSteinberg}
	JJN            = Diffusion{name: "jjn", Kernel: jarvisJudiceNinke}
	Sierra         = Diffusion{name: "sierra", Kernel: sierra}
)

var methods = func() map[string]Method {
	m := map[string]Method{
		"none":     None{},
		"nodither": None{},
		"ordered":  Bayer8x8,
		"bayer":    Matrix4x4,
		"floyd":    FloydSteinberg,
		"jjn":      JJN,
		"sierra":   Sierra,
	}
	for name, matrix := range libraryKernels {
		d, err := NewDiffusion(name, KernelFromMatrix(matrix))
		if err != nil {
			panic(err)
		}
		m[name] = d
	}
	return m
}()

// ParseMethod returns the method registered under name. An empty name
// selects DefaultMethod.
func ParseMethod(name string) (Method, error) {
	if name == "" {
		name = DefaultMethod
	}
	m, ok := methods[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownMethod, name, strings.Join(MethodNames(), ", "))
	}
	return m, nil
}

// MethodNames lists every accepted method name.
func MethodNames() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
