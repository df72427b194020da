package handlers

import (
	"strings"

	"github.com/Srinijakk/port-workflow1/internal/variables"
)

// TruckPrefix marks a transportation id as a truck. Anything else reaching a
// truck handler is a validation failure, not a different code path.
const TruckPrefix = "truck"

var requiredVariables = map[Kind][]string{
	KindCraneLoading:   {variables.KeyContainerID, variables.KeyTransportationID},
	KindCraneUnloading: {variables.KeyContainerID, variables.KeyTransportationID},
	KindWeighing:       {variables.KeyContainerID},
	KindStorage:        {variables.KeyContainerID},
	KindTruckCheckin:   {variables.KeyContainerID, variables.KeyTransportationID},
	KindTruckCheckout:  {variables.KeyContainerID, variables.KeyTransportationID},
}

// Validate runs the per-kind required-field check. It never touches the
// store, so a rejected job has no side effects at all.
func Validate(kind Kind, vars variables.VariableSet) error {
	for _, field := range requiredVariables[kind] {
		if !vars.Provided(field) {
			return &ValidationError{Kind: kind, Field: field}
		}
	}
	if kind == KindTruckCheckin || kind == KindTruckCheckout {
		if !strings.HasPrefix(vars.TransportationID, TruckPrefix) {
			return &ValidationError{
				Kind:   kind,
				Field:  variables.KeyTransportationID,
				Reason: "must start with \"" + TruckPrefix + "\"",
			}
		}
	}
	return nil
}
