package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"vipfit/domain/core"
)

// LinkName selects the link function for the inflation-probability model.
type LinkName string

const (
	LinkLogit   LinkName = "logit"
	LinkProbit  LinkName = "probit"
	LinkCloglog LinkName = "cloglog"
)

// Link maps a linear predictor to the (0,1) inflation probability.
// Inv is the inverse link (linear predictor -> probability); Fn is the link
// itself (probability -> linear predictor), used when seeding simulations
// and reporting on the link scale.
type Link struct {
	Name LinkName
	Inv  func(eta float64) float64
	Fn   func(p float64) float64
}

// NewLink returns the named link, or ErrUnknownLink.
func NewLink(name LinkName) (Link, error) {
	switch name {
	case LinkLogit, "":
		return Link{
			Name: LinkLogit,
			Inv:  func(eta float64) float64 { return 1 / (1 + math.Exp(-eta)) },
			Fn:   func(p float64) float64 { return math.Log(p / (1 - p)) },
		}, nil
	case LinkProbit:
		return Link{
			Name: LinkProbit,
			Inv:  distuv.UnitNormal.CDF,
			Fn:   distuv.UnitNormal.Quantile,
		}, nil
	case LinkCloglog:
		return Link{
			Name: LinkCloglog,
			Inv:  func(eta float64) float64 { return 1 - math.Exp(-math.Exp(eta)) },
			Fn:   func(p float64) float64 { return math.Log(-math.Log(1 - p)) },
		}, nil
	default:
		return Link{}, core.NewValidationError(core.ErrUnknownLink, string(name))
	}
}
