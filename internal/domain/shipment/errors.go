package shipment

import "errors"

var (
	ErrShipmentNotFound    = errors.New("shipment not found")
	ErrReferenceTaken      = errors.New("shipment reference already in use")
	ErrValidationBlocked   = errors.New("shipment has blocking validation errors")
	ErrNoOverride          = errors.New("shipment has no status override")
	ErrOverrideAlreadySet  = errors.New("shipment status is already overridden")
	ErrProductLineNotFound = errors.New("product line not found")
)
