package models

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrRouteLoad         = errors.New("route load error")
	ErrSimulation        = errors.New("simulation error")
	ErrInvalidRange      = errors.New("invalid sweep range")
	ErrTimeParse         = errors.New("invalid departure time")
	ErrInvalidSpeedModel = errors.New("invalid speed model")
	ErrUnsupportedOutput = errors.New("unsupported output format")
)
