package norms

import (
	"strings"

	"Concreteflow/internal/calc/calcerr"
)

// CodeInfo describes a declared design code for listings.
type CodeInfo struct {
	Code            DesignCode    `json:"code"`
	Name            string        `json:"name"`
	Region          string        `json:"region"`
	Implemented     bool          `json:"implemented"`
	ConcreteClasses []string      `json:"concrete_classes,omitempty"`
	SteelClasses    []string      `json:"steel_classes,omitempty"`
	Defaults        Materials     `json:"defaults"`
	Coefficients    *Coefficients `json:"coefficients,omitempty"`
}

type placeholder struct {
	name     string
	region   string
	defaults Materials
}

// Registry maps design codes to engines. It holds no mutable state after
// construction and may be shared between goroutines.
type Registry struct {
	engines      map[DesignCode]Engine
	placeholders map[DesignCode]placeholder
	order        []DesignCode
}

func NewRegistry() *Registry {
	return &Registry{
		engines: map[DesignCode]Engine{
			EC2:    engine{eurocode2{}},
			ACI318: engine{aci318{}},
			BAEL91: engine{bael91{theta: 1}},
		},
		placeholders: map[DesignCode]placeholder{
			BS8110: {"BS 8110 (UK)", "United Kingdom", Materials{Concrete: "C30", Steel: "Grade500"}},
			CSAA23: {"CSA A23.3 (Canada)", "Canada", Materials{Concrete: "C30", Steel: "400W"}},
		},
		order: []DesignCode{EC2, ACI318, BAEL91, BS8110, CSAA23},
	}
}

var aliases = map[string]DesignCode{
	"EC2":       EC2,
	"EUROCODE":  EC2,
	"EUROCODE2": EC2,
	"EN199211":  EC2,
	"ACI":       ACI318,
	"ACI318":    ACI318,
	"ACI31819":  ACI318,
	"BAEL":      BAEL91,
	"BAEL91":    BAEL91,
	"BAEL99":    BAEL91,
	"BS":        BS8110,
	"BS8110":    BS8110,
	"CSA":       CSAA23,
	"CSAA23":    CSAA23,
	"CSAA233":   CSAA23,
}

// ParseCode normalises a user supplied identifier. Case, spaces, dots,
// dashes and underscores are ignored.
func ParseCode(s string) (DesignCode, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(s)))
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return "", calcerr.New(calcerr.KindUnsupportedDesignCode, "unknown design code %q", s)
}

// Resolve returns the engine of an implemented code.
func (r *Registry) Resolve(c DesignCode) (Engine, error) {
	if e, ok := r.engines[c]; ok {
		return e, nil
	}
	if p, ok := r.placeholders[c]; ok {
		return nil, calcerr.New(calcerr.KindUnsupportedDesignCode, "%s (%s) is not implemented yet", c, p.name)
	}
	return nil, calcerr.New(calcerr.KindUnsupportedDesignCode, "unknown design code %q", string(c))
}

func (r *Registry) ResolveString(s string) (Engine, error) {
	c, err := ParseCode(s)
	if err != nil {
		return nil, err
	}
	return r.Resolve(c)
}

// Implemented lists the codes Resolve accepts, in declaration order.
func (r *Registry) Implemented() []DesignCode {
	out := make([]DesignCode, 0, len(r.engines))
	for _, c := range r.order {
		if _, ok := r.engines[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) List() []CodeInfo {
	out := make([]CodeInfo, 0, len(r.order))
	for _, c := range r.order {
		if e, ok := r.engines[c]; ok {
			coef := e.Coefficients()
			out = append(out, CodeInfo{
				Code:            c,
				Name:            e.Name(),
				Region:          e.Region(),
				Implemented:     true,
				ConcreteClasses: e.ConcreteClasses(),
				SteelClasses:    e.SteelClasses(),
				Defaults:        e.DefaultMaterials(),
				Coefficients:    &coef,
			})
			continue
		}
		p := r.placeholders[c]
		out = append(out, CodeInfo{Code: c, Name: p.name, Region: p.region, Defaults: p.defaults})
	}
	return out
}

// DefaultMaterials is known for every declared code, implemented or not.
func (r *Registry) DefaultMaterials(c DesignCode) (Materials, error) {
	if e, ok := r.engines[c]; ok {
		return e.DefaultMaterials(), nil
	}
	if p, ok := r.placeholders[c]; ok {
		return p.defaults, nil
	}
	return Materials{}, calcerr.New(calcerr.KindUnsupportedDesignCode, "unknown design code %q", string(c))
}
