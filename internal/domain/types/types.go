// Package types contains common types used across the application.
package types

// OperationType labels business_operations_total.
type OperationType string

// Business operations performed by the simulated endpoints.
const (
	OperationHealthCheck     OperationType = "health_check"
	OperationUserFetch       OperationType = "user_fetch"
	OperationUserCreate      OperationType = "user_create"
	OperationSlow            OperationType = "slow_operation"
	OperationErrorSimulation OperationType = "error_simulation"
)

// String implements fmt.Stringer.
func (o OperationType) String() string { return string(o) }
