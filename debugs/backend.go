package debugs

import (
	"github.com/reusee/tailambda/compilers"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/logs"
)

// InspectBackend realizes closures as inspectable Nodes instead of
// executable code.
type InspectBackend compilers.Backend

func (Module) InspectBackend(
	logger logs.Logger,
) InspectBackend {
	return compilers.BackendFunc(func(lambda *exprs.Lambda) (any, error) {
		logger.Debug("realize for inspection",
			"type", lambda.Type().String(),
			"kinds", Kinds(lambda),
		)
		return NewNode(lambda), nil
	})
}
