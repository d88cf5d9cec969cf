// Package common holds small helpers shared by the CLI and the HTTP API.
package common

import "github.com/google/uuid"

// NewRunID stamps one CLI run or API request. Time-ordered v7 when the
// clock source allows, random v4 otherwise.
func NewRunID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
