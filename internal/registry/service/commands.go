package service

import (
	"strings"

	dErrors "carpeta/pkg/domain-errors"
)

// RegisterCommand carries the data needed to onboard a citizen.
type RegisterCommand struct {
	CitizenID    string
	FullName     string
	Address      string
	Email        string // derived from name and citizen ID when empty
	OperatorID   string
	OperatorName string
}

func (c *RegisterCommand) normalize() error {
	c.CitizenID = strings.TrimSpace(c.CitizenID)
	c.FullName = strings.TrimSpace(c.FullName)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.TrimSpace(c.Email)
	if c.CitizenID == "" {
		return dErrors.New(dErrors.CodeValidation, "citizen ID is required")
	}
	if c.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	return nil
}

// DeregisterCommand removes a citizen from this operator.
type DeregisterCommand struct {
	CitizenID    string
	OperatorID   string
	OperatorName string
	Reason       string
}

func (c *DeregisterCommand) normalize() error {
	c.CitizenID = strings.TrimSpace(c.CitizenID)
	c.Reason = strings.TrimSpace(c.Reason)
	if c.CitizenID == "" {
		return dErrors.New(dErrors.CodeValidation, "citizen ID is required")
	}
	return nil
}

func requireCitizenID(citizenID string) (string, error) {
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" {
		return "", dErrors.New(dErrors.CodeValidation, "citizen ID is required")
	}
	return citizenID, nil
}
