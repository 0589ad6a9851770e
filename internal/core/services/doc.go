// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The submission pipeline is assembled here from small single-purpose
// parts: Acquirer, Validator, SessionGate, Encoder and StateMachine.
// Services are pure Go with no CGO.
package services
